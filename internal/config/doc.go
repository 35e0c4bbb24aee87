// Package config loads and merges the motion unit tables.
//
// Unit tables come from up to four layers, lowest priority first:
//
//   - the embedded defaults (defaults.toml)
//   - an editor settings.json file
//   - the user's units file (TOML or YAML)
//   - a workspace units file (TOML or YAML)
//
// Each layer holds units.<kind>.<name> entries. A higher layer replaces a
// unit of the same kind and name as a whole; units it does not name are
// inherited. Changes are published through a notify.Notifier under the
// "units.<kind>" path, so the unit registry can subscribe to "units" and
// rebuild only when the tables actually change.
//
// Basic usage:
//
//	cfg := config.New(config.WithUserFile(config.DefaultUserFile()))
//	if err := cfg.Load(ctx); err != nil {
//	    return err
//	}
//	defer cfg.Close()
//
//	entries := cfg.Units("markdown")
package config

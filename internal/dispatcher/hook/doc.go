// Package hook provides pre/post dispatch hooks for the dispatcher.
//
// Pre-dispatch hooks run before an action reaches its handler and may
// adjust the action or cancel the dispatch. Post-dispatch hooks run after
// the handler and may inspect or rewrite the result.
//
// # Priority
//
// Pre-hooks run from the highest priority down; post-hooks run from the
// lowest priority up, so the timing and audit hooks bracket everything
// else.
//
// # Built-in Hooks
//
//   - AuditHook: logs every dispatched action
//   - CountLimitHook: caps the repeat count
//   - ValidationHook: rejects actions; the dispatcher reports Rejection
//   - TimingHook: reports per-action latency and status (feeds dispatcher metrics)
//   - RevealHook: reveals the primary selection after a successful action
//
// Typical setup:
//
//	manager := hook.NewManager()
//	manager.Register(hook.NewAuditHook(logger))
//	manager.RegisterPre(hook.NewCountLimitHook(10000))
//	manager.RegisterPost(hook.NewRevealHook())
//
//	if manager.RunPreDispatch(&action, ctx) {
//	    result := h.Handle(action, ctx)
//	    manager.RunPostDispatch(&action, ctx, &result)
//	}
//
// All types are safe for concurrent use.
package hook

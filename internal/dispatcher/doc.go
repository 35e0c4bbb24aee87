// Package dispatcher routes selection actions to handlers and coordinates
// execution.
//
// # Routing
//
// Actions are named "namespace.action". The Router maps a namespace to the
// handlers serving it; all selection commands live in the "selection"
// namespace and are split across the motion, memory and filter handlers.
// The first handler of the namespace that accepts an action runs it.
//
// # Execution
//
// When an action is dispatched:
//
//  1. An ExecutionContext is built with the host, the unit resolver and the
//     session store
//  2. Pre-dispatch hooks run and may adjust or cancel the action; a
//     validation hook's rejection becomes the action's error result
//  3. The handler runs, with panic recovery unless disabled
//  4. Error results are shown on the host; the primary selection index is
//     clamped to the new selection count
//  5. Post-dispatch hooks run (reveal, audit, and timing, which feeds the
//     metrics when they are enabled)
//
// Errors are local to one dispatch: nothing a handler does can make
// Dispatch panic or leave the dispatcher unusable.
//
// # Usage
//
//	d := dispatcher.New(dispatcher.DefaultConfig())
//	d.SetHost(eng)
//	d.SetUnits(registry)
//	d.SetStore(session.NewStore())
//	d.RegisterNamespace(motion.NewHandler())
//
//	result := d.DispatchString("selection.moveBy unit=word value=2")
package dispatcher

// Package canvas holds the transient view state of a flow editor.
//
// A [Session] sits beside a [flow.Store] and keeps what the store must not:
// the [Viewport] (pan origin, size, zoom), the current selection, an
// in-progress node or reroute-point drag, a half-drawn connection and the
// set of nodes whose content is mounted. Structural edits made through the
// session are forwarded to the store, which stays the single source of
// truth. Edits made directly on the store are followed too: a selected or
// half-drawn connection is dropped once its edge is removed or its port is
// renumbered.
//
// # Coordinates
//
// Pointer positions arrive in screen space. [Viewport.ScreenToCanvas]
// removes the pan offset and zoom scale before anything is stored or handed
// to the curve package.
//
// # Collaborators
//
// Hosts plug in two collaborators. A [Locator] reports the on-screen anchor
// of each port, which [Session.ConnectionPath] needs to draw an edge. A
// [Mounter] attaches node content; the session mounts nodes as they are
// created in the active module, unmounts them when removed, and on every
// module switch or import unmounts everything, resets the view and mounts
// the new active module.
package canvas

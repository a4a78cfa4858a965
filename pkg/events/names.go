package events

// Event names emitted by the store and the view session.
const (
	NodeCreated     = "nodeCreated"     // payload: node id
	NodeRemoved     = "nodeRemoved"     // payload: node id
	NodeSelected    = "nodeSelected"    // payload: node id
	NodeUnselected  = "nodeUnselected"  // payload: true
	NodeMoved       = "nodeMoved"       // payload: node id
	NodeDataChanged = "nodeDataChanged" // payload: node id

	ConnectionStart      = "connectionStart"      // payload: pending source node and output port
	ConnectionCreated    = "connectionCreated"    // payload: connection
	ConnectionRemoved    = "connectionRemoved"    // payload: connection
	ConnectionCancel     = "connectionCancel"     // payload: true
	ConnectionSelected   = "connectionSelected"   // payload: connection
	ConnectionUnselected = "connectionUnselected" // payload: true

	PortRemoved = "portRemoved" // payload: removed port (later ports shift down)

	AddReroute    = "addReroute"    // payload: source node id
	RemoveReroute = "removeReroute" // payload: source node id
	RerouteMoved  = "rerouteMoved"  // payload: source node id

	ModuleCreated = "moduleCreated" // payload: module name
	ModuleChanged = "moduleChanged" // payload: module name
	ModuleRemoved = "moduleRemoved" // payload: module name

	Zoom   = "zoom"   // payload: zoom factor
	Export = "export" // payload: exported graph
	Import = "import" // payload: "import"
)

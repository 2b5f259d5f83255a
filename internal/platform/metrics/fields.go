package metrics

// Attribute keys shared by every instrument.
const (
	AttrMethod    = "method"
	AttrRoute     = "route"
	AttrStatus    = "status"
	AttrProvider  = "provider"
	AttrOperation = "operation"
	AttrCache     = "cache"
	AttrResult    = "result"
	AttrState     = "state"
)

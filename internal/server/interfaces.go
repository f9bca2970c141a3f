package server

// Server is one transport of the study platform API.
// RunServer blocks until the listener stops; Shutdown drains in-flight
// requests and closes it.
type Server interface {
	RunServer()
	Shutdown()
}

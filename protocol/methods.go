package protocol

// ServiceName is the fully-qualified gRPC service the sidecar exposes.
const ServiceName = "duratask.v1.Sidecar"

const (
	MethodHello                    = "/" + ServiceName + "/Hello"
	MethodGetWorkItems             = "/" + ServiceName + "/GetWorkItems"
	MethodCompleteOrchestratorTask = "/" + ServiceName + "/CompleteOrchestratorTask"
	MethodCompleteActivityTask     = "/" + ServiceName + "/CompleteActivityTask"
)

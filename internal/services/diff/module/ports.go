package module

import dom "diffjar/internal/services/diff/domain"

// Ports holds the ports exposed by the diff module
type Ports struct {
	Pipeline dom.PipelinePort
	Worker   dom.WorkerPort
}

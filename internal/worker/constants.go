package worker

import "time"

// Pool defaults
const (
	DefaultWorkers    = 2
	DefaultQueueSize  = 16
	DefaultJobTimeout = time.Minute
)

// Log messages
const (
	LogMsgWorkerJobFailed  = "Worker job failed"
	LogMsgWorkerQueueFull  = "Worker queue full, job dropped"
	LogMsgCatalogWarmed    = "Catalog warmed"
	LogMsgCatalogWarmError = "Catalog warm failed"
)

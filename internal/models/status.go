package models

import "time"

// ServiceStatus describes the services behind the pipeline.
type ServiceStatus struct {
	// CacheExpires is when the cached batch stops being reused. Zero when
	// nothing is cached.
	CacheExpires time.Time
	StopWords    string
	HookPolicy   string
	History      string
	BreakerOpen  bool
}

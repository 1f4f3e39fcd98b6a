// Package config provides loading and environment overlay for the attendance
// runtime configuration. It exposes a Default() baseline plus JSON/YAML file
// loading and ATTEND_* env overlays.
//
// Example:
//
//	cfg := config.Default()
//	if fileCfg, err := config.Load("/etc/attend.yaml"); err == nil {
//	    cfg = fileCfg
//	}
//	config.FromEnv(&cfg)
//	rt, _ := runtime.Open(runtime.Options{DataDir: config.DefaultDataDir(), Config: cfg})
//	defer rt.Close()
package config

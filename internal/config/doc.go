// Package config loads graft configuration with viper.
//
// Settings come from graft.yaml and from GRAFT_ environment variables,
// which take precedence:
//
//	server:
//	  addr: ":7070"
//	  path: /live
//	metrics:
//	  namespace: graft
//	log:
//	  level: info
//	render:
//	  pretty: false
//	s3:
//	  region: us-east-1
//	  endpoint: ""
//	  path_style: false
//
// GRAFT_SERVER_ADDR overrides server.addr, GRAFT_LOG_LEVEL overrides
// log.level, and so on.
package config

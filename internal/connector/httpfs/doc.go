// Package httpfs implements a client for the HttpFS (WebHDFS-compatible)
// REST gateway of a Hadoop cluster.
//
// Filesystem operations are translated to single HTTP requests against a
// configured root URL, and gateway responses, including the JSON
// RemoteException envelope, are translated back into typed results or a
// *GatewayError.
//
// Creating a file is a two-step exchange: the name-service endpoint answers
// the first PUT with a 307 pointing at a data node, and the payload is sent
// again to that location. The client follows that chain itself, up to
// Config.MaxRedirects.
//
// Configuration:
//
//	gateway:
//	  root_url: "http://namenode:14000/webhdfs/v1"
//	  username: "hdfs"
//	  debug: false
//	  max_redirects: 10
package httpfs

package httpfs

import (
	"encoding/json"
	"net/http"
)

// DefaultMaxRedirects is the redirect bound used when none is configured.
const DefaultMaxRedirects = 10

// Config holds the gateway settings. It is built once at startup and never
// modified afterwards.
type Config struct {
	RootURL      string // Gateway root, paths are appended verbatim (e.g. http://namenode:14000/webhdfs/v1)
	Username     string // Sent as user.name when non-empty
	Debug        bool   // Trace create-file requests and redirects
	MaxRedirects int    // Redirects followed by CreateFile before giving up
}

// Op is a gateway operation name as it appears in the op= query parameter.
type Op string

// Gateway operation constants
const (
	OpListStatus Op = "LISTSTATUS"
	OpOpen       Op = "OPEN"
	OpDelete     Op = "DELETE"
	OpMkdirs     Op = "MKDIRS"
	OpCreate     Op = "CREATE"
)

// Method returns the HTTP method used for the operation.
func (o Op) Method() string {
	switch o {
	case OpDelete:
		return http.MethodDelete
	case OpMkdirs, OpCreate:
		return http.MethodPut
	default:
		return http.MethodGet
	}
}

// OperationRequest describes one gateway call.
type OperationRequest struct {
	Op         Op
	Path       string // Absolute HDFS path
	Recursive  bool   // DELETE only
	Permission string // Octal mode for MKDIRS/CREATE, omitted when empty
	Overwrite  bool   // CREATE only
	Payload    []byte // CREATE only
}

// =============================================================================
// RESPONSES
// =============================================================================

// Response is the successful outcome of an operation. It is one of
// *Listing, RawBytes, *Acknowledged or *Created.
type Response interface {
	isResponse()
}

// FileStatus represents HDFS file/directory metadata.
type FileStatus struct {
	AccessTime       int64  `json:"accessTime"`
	BlockSize        int64  `json:"blockSize"`
	Group            string `json:"group"`
	Length           int64  `json:"length"`
	ModificationTime int64  `json:"modificationTime"`
	Owner            string `json:"owner"`
	PathSuffix       string `json:"pathSuffix"`
	Permission       string `json:"permission"`
	Replication      int    `json:"replication"`
	Type             string `json:"type"` // FILE or DIRECTORY
}

// IsDir reports whether the entry is a directory.
func (s FileStatus) IsDir() bool {
	return s.Type == "DIRECTORY"
}

// listStatusResponse is the gateway response for LISTSTATUS.
type listStatusResponse struct {
	FileStatuses struct {
		FileStatus []FileStatus `json:"FileStatus"`
	} `json:"FileStatuses"`
}

// Listing is the result of ListDirectory. Entries keep the order the
// gateway returned them in; Raw is the untouched response body.
type Listing struct {
	Entries []FileStatus
	Raw     json.RawMessage
}

// RawBytes is the content returned by OpenFile.
type RawBytes []byte

// Acknowledged is the result of DeleteDirectory, DeleteFile and
// CreateDirectory. Boolean is the gateway's "boolean" field, or true when
// the body carried none. Body is nil when the response was not a JSON object.
type Acknowledged struct {
	Boolean bool
	Body    map[string]any
}

// Created is the result of CreateFile. URL is the location the payload was
// finally accepted at and Redirects the number of 307 hops followed.
type Created struct {
	URL       string
	Redirects int
}

func (*Listing) isResponse()      {}
func (RawBytes) isResponse()      {}
func (*Acknowledged) isResponse() {}
func (*Created) isResponse()      {}

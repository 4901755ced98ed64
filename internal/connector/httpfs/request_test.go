package httpfs

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildRequest(t *testing.T) {
	withUser := Config{RootURL: "http://gw:14000/webhdfs/v1", Username: "u"}
	noUser := Config{RootURL: "http://gw:14000/webhdfs/v1"}

	tests := []struct {
		name       string
		cfg        Config
		req        OperationRequest
		wantMethod string
		wantURL    string
	}{
		{
			name:       "list with user",
			cfg:        withUser,
			req:        OperationRequest{Op: OpListStatus, Path: "/a/b"},
			wantMethod: http.MethodGet,
			wantURL:    "http://gw:14000/webhdfs/v1/a/b?op=LISTSTATUS&user.name=u",
		},
		{
			name:       "open without user",
			cfg:        noUser,
			req:        OperationRequest{Op: OpOpen, Path: "/a/b.txt"},
			wantMethod: http.MethodGet,
			wantURL:    "http://gw:14000/webhdfs/v1/a/b.txt?op=OPEN",
		},
		{
			name:       "delete recursive",
			cfg:        withUser,
			req:        OperationRequest{Op: OpDelete, Path: "/a/b", Recursive: true},
			wantMethod: http.MethodDelete,
			wantURL:    "http://gw:14000/webhdfs/v1/a/b?op=DELETE&user.name=u&recursive=true",
		},
		{
			name:       "delete non-recursive is explicit",
			cfg:        noUser,
			req:        OperationRequest{Op: OpDelete, Path: "/a/b"},
			wantMethod: http.MethodDelete,
			wantURL:    "http://gw:14000/webhdfs/v1/a/b?op=DELETE&recursive=false",
		},
		{
			name:       "mkdirs with permission",
			cfg:        withUser,
			req:        OperationRequest{Op: OpMkdirs, Path: "/d", Permission: "755"},
			wantMethod: http.MethodPut,
			wantURL:    "http://gw:14000/webhdfs/v1/d?op=MKDIRS&user.name=u&permission=755",
		},
		{
			name:       "mkdirs without permission",
			cfg:        noUser,
			req:        OperationRequest{Op: OpMkdirs, Path: "/d"},
			wantMethod: http.MethodPut,
			wantURL:    "http://gw:14000/webhdfs/v1/d?op=MKDIRS",
		},
		{
			name:       "create with everything",
			cfg:        withUser,
			req:        OperationRequest{Op: OpCreate, Path: "/f", Permission: "644", Overwrite: true},
			wantMethod: http.MethodPut,
			wantURL:    "http://gw:14000/webhdfs/v1/f?op=CREATE&user.name=u&permission=644&overwrite=true",
		},
		{
			name:       "create omits overwrite=false",
			cfg:        withUser,
			req:        OperationRequest{Op: OpCreate, Path: "/f"},
			wantMethod: http.MethodPut,
			wantURL:    "http://gw:14000/webhdfs/v1/f?op=CREATE&user.name=u",
		},
		{
			name:       "recursive ignored outside delete",
			cfg:        noUser,
			req:        OperationRequest{Op: OpListStatus, Path: "/", Recursive: true, Overwrite: true, Permission: "777"},
			wantMethod: http.MethodGet,
			wantURL:    "http://gw:14000/webhdfs/v1/?op=LISTSTATUS",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			method, url := BuildRequest(tt.cfg, tt.req)
			assert.Equal(t, tt.wantMethod, method)
			assert.Equal(t, tt.wantURL, url)
		})
	}
}

func TestBuildRequest_Deterministic(t *testing.T) {
	cfg := Config{RootURL: "http://gw", Username: "hdfs"}
	req := OperationRequest{Op: OpCreate, Path: "/x", Permission: "600", Overwrite: true}

	_, first := BuildRequest(cfg, req)
	for i := 0; i < 10; i++ {
		_, again := BuildRequest(cfg, req)
		assert.Equal(t, first, again)
	}
}

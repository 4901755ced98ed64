package httpfs

import "strings"

// BuildRequest returns the HTTP method and URL for req. The URL is
// RootURL + Path + "?op=" + OP followed by the operation's parameters in a
// fixed order. Nothing is escaped; paths are used as given.
func BuildRequest(cfg Config, req OperationRequest) (method, url string) {
	var b strings.Builder
	b.WriteString(cfg.RootURL)
	b.WriteString(req.Path)
	b.WriteString("?op=")
	b.WriteString(string(req.Op))

	if cfg.Username != "" {
		b.WriteString("&user.name=")
		b.WriteString(cfg.Username)
	}

	switch req.Op {
	case OpDelete:
		if req.Recursive {
			b.WriteString("&recursive=true")
		} else {
			b.WriteString("&recursive=false")
		}
	case OpMkdirs:
		writePermission(&b, req.Permission)
	case OpCreate:
		writePermission(&b, req.Permission)
		if req.Overwrite {
			b.WriteString("&overwrite=true")
		}
	}

	return req.Op.Method(), b.String()
}

func writePermission(b *strings.Builder, permission string) {
	if permission == "" {
		return
	}
	b.WriteString("&permission=")
	b.WriteString(permission)
}

package httpfs

import "encoding/json"

// parseOptionalJSON decodes body as a JSON object. A body that is empty,
// not JSON, or JSON but not an object yields ok=false; that is never an
// error by itself, it only means there is no envelope to inspect.
func parseOptionalJSON(body []byte) (obj map[string]any, ok bool) {
	if len(body) == 0 {
		return nil, false
	}
	if err := json.Unmarshal(body, &obj); err != nil || obj == nil {
		return nil, false
	}
	return obj, true
}

// remoteException returns the message of a RemoteException envelope.
func remoteException(obj map[string]any) (string, bool) {
	raw, ok := obj["RemoteException"]
	if !ok {
		return "", false
	}
	if inner, ok := raw.(map[string]any); ok {
		if msg, ok := inner["message"].(string); ok {
			return msg, true
		}
	}
	return "RemoteException", true
}

// booleanResult returns the "boolean" field when it is a JSON bool.
func booleanResult(obj map[string]any) (value, present bool) {
	v, ok := obj["boolean"].(bool)
	return v, ok
}

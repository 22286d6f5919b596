package server

import (
	"encoding/json"
	"fmt"

	"google.golang.org/protobuf/types/known/structpb"
)

// toStruct converts any JSON-marshalable value into a Struct. Column order
// of query rows is not preserved by Struct.
func toStruct(v any) (*structpb.Struct, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal response: %w", err)
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}
	return structpb.NewStruct(m)
}

// payloadOf extracts the insert payload from a request's "payload" field.
// Text stays text; objects become maps.
func payloadOf(req *structpb.Struct) (any, bool) {
	v, ok := req.GetFields()["payload"]
	if !ok || v == nil {
		return nil, false
	}
	switch k := v.GetKind().(type) {
	case *structpb.Value_StringValue:
		return k.StringValue, k.StringValue != ""
	case *structpb.Value_StructValue:
		return k.StructValue.AsMap(), true
	default:
		return nil, false
	}
}

func stringField(req *structpb.Struct, name string) string {
	return req.GetFields()[name].GetStringValue()
}

func boolField(req *structpb.Struct, name string) bool {
	return req.GetFields()[name].GetBoolValue()
}

func stringsField(req *structpb.Struct, name string) []string {
	var out []string
	for _, v := range req.GetFields()[name].GetListValue().GetValues() {
		if s := v.GetStringValue(); s != "" {
			out = append(out, s)
		}
	}
	return out
}

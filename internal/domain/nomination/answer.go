package nomination

import (
	"bytes"
	"encoding/json"
	"fmt"
)

type AnswerKind string

const (
	AnswerText    AnswerKind = "text"
	AnswerList    AnswerKind = "list"
	AnswerFileURL AnswerKind = "file_url"
)

// AnswerValue is one answer: free text, a list of selected options, or the
// retrieval URL of an uploaded attachment.
type AnswerValue struct {
	Kind    AnswerKind
	Text    string
	List    []string
	FileURL string
}

func Text(s string) AnswerValue { return AnswerValue{Kind: AnswerText, Text: s} }
func List(items ...string) AnswerValue {
	return AnswerValue{Kind: AnswerList, List: append([]string{}, items...)}
}
func FileURL(url string) AnswerValue { return AnswerValue{Kind: AnswerFileURL, FileURL: url} }

type fileURLJSON struct {
	FileURL string `json:"fileUrl"`
}

func (v AnswerValue) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case AnswerList:
		if v.List == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(v.List)
	case AnswerFileURL:
		return json.Marshal(fileURLJSON{FileURL: v.FileURL})
	default:
		return json.Marshal(v.Text)
	}
}

func (v *AnswerValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return fmt.Errorf("empty answer")
	}
	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = Text(s)
	case '[':
		var items []string
		if err := json.Unmarshal(data, &items); err != nil {
			return fmt.Errorf("answer list must contain strings: %w", err)
		}
		*v = List(items...)
	case '{':
		var f fileURLJSON
		if err := json.Unmarshal(data, &f); err != nil {
			return err
		}
		*v = FileURL(f.FileURL)
	case 'n':
		*v = Text("")
	default:
		return fmt.Errorf("unsupported answer value %s", string(data))
	}
	return nil
}

// Responses maps question id to answer.
type Responses map[string]AnswerValue

func (r Responses) TextOf(questionID string) (string, bool) {
	v, ok := r[questionID]
	if !ok || v.Kind != AnswerText {
		return "", false
	}
	return v.Text, true
}

func (r Responses) ListOf(questionID string) ([]string, bool) {
	v, ok := r[questionID]
	if !ok || v.Kind != AnswerList {
		return nil, false
	}
	return v.List, true
}

// Clone returns a copy that shares no slices with r.
func (r Responses) Clone() Responses {
	if r == nil {
		return nil
	}
	out := make(Responses, len(r))
	for k, v := range r {
		if v.List != nil {
			v.List = append([]string(nil), v.List...)
		}
		out[k] = v
	}
	return out
}

// Attachments maps question id to the retrieval URL of the uploaded file.
type Attachments map[string]string

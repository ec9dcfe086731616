package workout

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Scalar is a JSON scalar that may arrive as a string or as a number.
// It remembers which, so catalog ids and type tags round-trip to the
// platform in the shape they were loaded in.
type Scalar struct {
	text    string
	numeric bool
}

// StringScalar returns a Scalar that marshals as a JSON string.
func StringScalar(s string) Scalar {
	return Scalar{text: s}
}

// NumberScalar returns a Scalar that marshals as a JSON number.
func NumberScalar(n int64) Scalar {
	return Scalar{text: strconv.FormatInt(n, 10), numeric: true}
}

func (s Scalar) String() string { return s.text }

// IsZero reports whether the scalar holds no value.
func (s Scalar) IsZero() bool { return s.text == "" }

func (s Scalar) MarshalJSON() ([]byte, error) {
	if s.numeric {
		return []byte(s.text), nil
	}
	return json.Marshal(s.text)
}

func (s *Scalar) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0 || bytes.Equal(data, []byte("null")):
		*s = Scalar{}
	case data[0] == '"':
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		*s = Scalar{text: str}
	case bytes.Equal(data, []byte("true")), bytes.Equal(data, []byte("false")):
		*s = Scalar{text: string(data)}
	default:
		var num json.Number
		if err := json.Unmarshal(data, &num); err != nil {
			return fmt.Errorf("scalar: unsupported JSON value %s", string(data))
		}
		*s = Scalar{text: num.String(), numeric: true}
	}
	return nil
}

// Text is a string field the extraction step sometimes emits as a number
// (e.g. "Reps": {"value": 10}). It always marshals as a JSON string.
type Text string

func (t *Text) UnmarshalJSON(data []byte) error {
	var sc Scalar
	if err := sc.UnmarshalJSON(data); err != nil {
		return err
	}
	*t = Text(sc.text)
	return nil
}

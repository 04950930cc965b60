package model

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"

	"github.com/YuminosukeSato/langid/pkg/errors"
)

// jsonFloat は非有限値を "+Inf" "-Inf" "NaN" の文字列として読み書きする float64。
// 有限値は通常のJSON数値のまま。
type jsonFloat float64

func (f jsonFloat) MarshalJSON() ([]byte, error) {
	v := float64(f)
	switch {
	case math.IsInf(v, 1):
		return []byte(`"+Inf"`), nil
	case math.IsInf(v, -1):
		return []byte(`"-Inf"`), nil
	case math.IsNaN(v):
		return []byte(`"NaN"`), nil
	}
	return json.Marshal(v)
}

func (f *jsonFloat) UnmarshalJSON(data []byte) error {
	if len(data) == 0 || data[0] != '"' {
		var v float64
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*f = jsonFloat(v)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return errors.Wrapf(err, "threshold %s", bytes.TrimSpace(data))
	}
	*f = jsonFloat(v)
	return nil
}

func (r NodeRecord) MarshalJSON() ([]byte, error) {
	type plain NodeRecord
	return json.Marshal(struct {
		plain
		Threshold jsonFloat `json:"threshold,omitempty"`
	}{plain(r), jsonFloat(r.Threshold)})
}

func (r *NodeRecord) UnmarshalJSON(data []byte) error {
	type plain NodeRecord
	aux := struct {
		*plain
		Threshold jsonFloat `json:"threshold,omitempty"`
	}{plain: (*plain)(r)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	r.Threshold = float64(aux.Threshold)
	return nil
}

func (r StumpRecord) MarshalJSON() ([]byte, error) {
	type plain StumpRecord
	return json.Marshal(struct {
		plain
		Threshold jsonFloat `json:"threshold"`
	}{plain(r), jsonFloat(r.Threshold)})
}

func (r *StumpRecord) UnmarshalJSON(data []byte) error {
	type plain StumpRecord
	aux := struct {
		*plain
		Threshold jsonFloat `json:"threshold"`
	}{plain: (*plain)(r)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	r.Threshold = float64(aux.Threshold)
	return nil
}

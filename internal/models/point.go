package models

import "time"

// Measurement names and keys of the emitted records
const (
	MeasurementPing  = "ping"
	MeasurementError = "ping_error"

	TagTarget = "target"

	FieldRTT        = "rtt_ms"
	FieldPacketLoss = "packet_loss_pct"
	FieldError      = "error"
	FieldMessage    = "msg"
)

// Point is a named, tagged, timestamped measurement record.
// Points are built once per tick and never modified after construction.
type Point struct {
	Measurement string
	Tags        map[string]string
	Fields      map[string]interface{}
	Time        time.Time
}

// NewPingPoint builds the "ping" record for a sample.
func NewPingPoint(s Sample, ts time.Time) Point {
	return Point{
		Measurement: MeasurementPing,
		Tags:        map[string]string{TagTarget: string(s.Target)},
		Fields: map[string]interface{}{
			FieldRTT:        s.RTTAvgMs,
			FieldPacketLoss: s.PacketLossPct,
		},
		Time: ts,
	}
}

// NewErrorPoint builds the "ping_error" record for a failed probe.
// The error field is always the integer 1.
func NewErrorPoint(f *ProbeFailure, ts time.Time) Point {
	msg := ""
	if f != nil {
		msg = f.Message
	}
	return Point{
		Measurement: MeasurementError,
		Tags:        map[string]string{},
		Fields: map[string]interface{}{
			FieldError:   int64(1),
			FieldMessage: msg,
		},
		Time: ts,
	}
}

// FloatField returns a float field, reporting whether it was present.
func (p Point) FloatField(key string) (float64, bool) {
	v, ok := p.Fields[key].(float64)
	return v, ok
}

// StringField returns a string field, reporting whether it was present.
func (p Point) StringField(key string) (string, bool) {
	v, ok := p.Fields[key].(string)
	return v, ok
}

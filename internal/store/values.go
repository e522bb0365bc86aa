package store

// SensorValue is a sealed interface over the two reading shapes: Scalar
// for single-channel sensors (battery, infrared, touch) and Vector for
// 3-axis sensors (gyroscope, accelerometer).
type SensorValue interface {
	sensorValue() // sealed - only Scalar and Vector implement it
}

// Scalar is a single-channel sensor reading.
type Scalar float64

func (Scalar) sensorValue() {}

// Vector is a 3-axis sensor reading (x, y, z).
type Vector [3]float64

func (Vector) sensorValue() {}

// Decision is the control decision attached to an event snapshot.
type Decision struct {
	Code   string
	Reason string
}

// IsZero reports whether no decision was supplied.
func (d Decision) IsZero() bool {
	return d.Code == "" && d.Reason == ""
}

// Identity carries the robot/operator attributes recorded in the Meta
// record. Empty attributes are replaced by the documented defaults.
//
// Attribute values become field values verbatim; they must not contain
// the space or colon delimiter of the native format.
type Identity struct {
	Name         string
	Version      string
	Serial       string
	Manufacturer string
	Operator     string
	Responsible  string
}

// Identity defaults, substituted for missing attributes.
const (
	DefaultName         = "Unknown"
	DefaultVersion      = "1.0"
	DefaultSerial       = "000001"
	DefaultManufacturer = "Default"
	DefaultOperator     = "System"
	DefaultResponsible  = "Admin"
)

// RecorderName identifies this recorder implementation in Meta records.
const RecorderName = "ebb/1.0"

func (id Identity) withDefaults() Identity {
	def := func(v, fallback string) string {
		if v == "" {
			return fallback
		}
		return v
	}
	return Identity{
		Name:         def(id.Name, DefaultName),
		Version:      def(id.Version, DefaultVersion),
		Serial:       def(id.Serial, DefaultSerial),
		Manufacturer: def(id.Manufacturer, DefaultManufacturer),
		Operator:     def(id.Operator, DefaultOperator),
		Responsible:  def(id.Responsible, DefaultResponsible),
	}
}

// conf/consts.go hard coded constants
package conf

const (
	SampleRate    = 16000 // Sample rate of the audio uploaded to the classifier
	BitDepth      = 16    // Bit depth of the audio uploaded to the classifier
	NumChannels   = 1     // Number of channels of the audio uploaded to the classifier
	CaptureLength = 3     // Length of one capture chunk in seconds

	MaxUploadSize      = 50 * 1024 * 1024 // Upload size ceiling in bytes
	DefaultBackendPort = 5000             // Port the inference backend listens on

	DefaultModelVersion = "v2.1.0"

	// DebugHostEnv names the environment variable carrying the development
	// machine's host:port, used to derive a LAN backend candidate.
	DebugHostEnv = "SOUNDAWARE_DEBUG_HOST"

	// LastResortBackend is the static final candidate tried when nothing
	// else is configured or reachable.
	LastResortBackend = "http://192.168.29.32:5000"

	// HistoryLimit caps the number of detections kept in history.
	HistoryLimit = 100

	// NotificationLimit caps the number of stored notifications.
	NotificationLimit = 50
)

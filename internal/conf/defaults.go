// conf/defaults.go default values for settings
package conf

import (
	"github.com/spf13/viper"
)

// Sets default values for the configuration.
func setDefaultConfig() {
	viper.SetDefault("debug", false)

	viper.SetDefault("main.name", "SoundAware")
	viper.SetDefault("main.log.enabled", true)
	viper.SetDefault("main.log.path", "soundaware.log")

	viper.SetDefault("model.modelversion", DefaultModelVersion)
	viper.SetDefault("model.sensitivity", 0.7)
	viper.SetDefault("model.confidencethreshold", 0.6)
	viper.SetDefault("model.samplerate", SampleRate)
	viper.SetDefault("model.maxduration", CaptureLength)
	viper.SetDefault("model.batchsize", 32)
	viper.SetDefault("model.enablepreprocessing", true)
	viper.SetDefault("model.enablepostprocessing", true)

	viper.SetDefault("capture.device", "")
	viper.SetDefault("capture.maxfilesize", MaxUploadSize)
	viper.SetDefault("capture.allowedtypes", []string{".mp3", ".wav", ".m4a", ".aac", ".flac"})

	viper.SetDefault("backend.url", "")
	viper.SetDefault("backend.port", DefaultBackendPort)
	viper.SetDefault("backend.timeout", 30)
	viper.SetDefault("backend.retrydelayms", 500)

	viper.SetDefault("realtime.chunkseconds", CaptureLength)
	viper.SetDefault("realtime.mqtt.enabled", false)
	viper.SetDefault("realtime.mqtt.broker", "tcp://localhost:1883")
	viper.SetDefault("realtime.mqtt.topic", "soundaware/detections")
	viper.SetDefault("realtime.mqtt.username", "")
	viper.SetDefault("realtime.mqtt.password", "")
	viper.SetDefault("realtime.mqtt.retain", false)

	viper.SetDefault("output.sqlite.enabled", true)
	viper.SetDefault("output.sqlite.path", "soundaware.db")
	viper.SetDefault("output.statepath", "state/")

	viper.SetDefault("webserver.enabled", true)
	viper.SetDefault("webserver.port", "8080")
	viper.SetDefault("webserver.debug", false)
}

// defaultSettings returns a Settings struct populated with the built-in defaults.
func defaultSettings() *Settings {
	s := &Settings{}
	s.Main.Name = "SoundAware"
	s.Main.Log = LogConfig{Enabled: true, Path: "soundaware.log"}
	s.Model = ModelSettings{
		ModelVersion:         DefaultModelVersion,
		Sensitivity:          0.7,
		ConfidenceThreshold:  0.6,
		SampleRate:           SampleRate,
		MaxDuration:          CaptureLength,
		BatchSize:            32,
		EnablePreprocessing:  true,
		EnablePostprocessing: true,
	}
	s.Capture = CaptureSettings{
		MaxFileSize:  MaxUploadSize,
		AllowedTypes: []string{".mp3", ".wav", ".m4a", ".aac", ".flac"},
	}
	s.Backend = BackendSettings{
		Port:         DefaultBackendPort,
		Timeout:      30,
		RetryDelayMs: 500,
	}
	s.Realtime = RealtimeSettings{
		ChunkSeconds: CaptureLength,
		MQTT: MQTTSettings{
			Broker: "tcp://localhost:1883",
			Topic:  "soundaware/detections",
		},
	}
	s.Output = OutputSettings{
		SQLite:    SQLiteSettings{Enabled: true, Path: "soundaware.db"},
		StatePath: "state/",
	}
	s.Webserver = WebServerSettings{Enabled: true, Port: "8080"}
	return s
}

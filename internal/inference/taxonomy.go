package inference

// Taxonomy of household sounds the mock predictor draws from, grouped by
// category. The labels mirror what the backend model is trained on.
var soundCategories = map[string][]string{
	"kitchen":       {"Microwave Beep", "Kitchen Timer", "Boiling Water", "Blender", "Coffee Maker", "Dishwasher"},
	"security":      {"Doorbell", "Door Knock", "Window Break", "Car Alarm", "Motion Sensor"},
	"appliances":    {"Washing Machine", "Vacuum Cleaner", "Air Conditioner", "Dryer Cycle", "Garbage Disposal"},
	"pets":          {"Dog Bark", "Cat Meow", "Bird Chirping", "Hamster Wheel"},
	"emergency":     {"Smoke Alarm", "Carbon Monoxide Alarm", "Fire Alarm", "Security Siren"},
	"communication": {"Phone Ring", "Text Message", "Video Call", "Notification Sound"},
	"ambient":       {"Running Water", "Footsteps", "Door Closing", "Chair Moving", "Paper Rustling"},
}

// allSounds is the flattened taxonomy with stable ordering for uniform
// sampling.
var allSounds = flattenTaxonomy()

func flattenTaxonomy() []string {
	// Fixed category order keeps the flattened slice deterministic.
	order := []string{"kitchen", "security", "appliances", "pets", "emergency", "communication", "ambient"}
	var sounds []string
	for _, cat := range order {
		sounds = append(sounds, soundCategories[cat]...)
	}
	return sounds
}

// KnownSounds returns a copy of the full mock taxonomy.
func KnownSounds() []string {
	out := make([]string, len(allSounds))
	copy(out, allSounds)
	return out
}

// SoundCategories returns the taxonomy grouped by category, copied so
// callers cannot mutate the package state.
func SoundCategories() map[string][]string {
	out := make(map[string][]string, len(soundCategories))
	for cat, sounds := range soundCategories {
		cp := make([]string, len(sounds))
		copy(cp, sounds)
		out[cat] = cp
	}
	return out
}

// IsKnownSound reports whether the label belongs to the mock taxonomy.
func IsKnownSound(label string) bool {
	for _, s := range allSounds {
		if s == label {
			return true
		}
	}
	return false
}

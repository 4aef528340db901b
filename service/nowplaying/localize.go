package nowplaying

// deviceTypeLabels maps the Web API's device-type values to the Turkish
// labels shown in the portfolio widget. The set of upstream values is
// closed; anything outside it passes through unchanged.
var deviceTypeLabels = map[string]string{
	"Computer":    "Bilgisayar",
	"Smartphone":  "Akıllı Telefon",
	"Tablet":      "Tablet",
	"Speaker":     "Hoparlör",
	"TV":          "Televizyon",
	"AVR":         "AVR",
	"STB":         "STB",
	"AudioDongle": "AudioDongle",
	"GameConsole": "Oyun Konsolu",
	"CastVideo":   "CastVideo",
	"CastAudio":   "CastAudio",
	"Automobile":  "Otomobil",
	"Unknown":     "Bilinmiyor",
}

// LocalizeDeviceType returns the display label for a device type, or the
// raw value itself when it is not a known type.
func LocalizeDeviceType(raw string) string {
	if label, ok := deviceTypeLabels[raw]; ok {
		return label
	}
	return raw
}

package diagnostics

import "fmt"

type Severity string

const (
	Info Severity = "info"
	Warn Severity = "warning"
	Err  Severity = "error"
)

type Diagnostic struct {
	Severity       Severity       `json:"severity"`
	Code           string         `json:"code"`
	Summary        string         `json:"summary"`
	Detail         string         `json:"detail,omitempty"`
	LikelyCauses   []string       `json:"likely_causes,omitempty"`
	SuggestedFixes []string       `json:"suggested_fixes,omitempty"`
	Evidence       map[string]any `json:"evidence,omitempty"`
}

// DriverSelected reports which LED driver is live, flagging a fallback.
func DriverSelected(requested, selected string) Diagnostic {
	d := Diagnostic{
		Severity: Info,
		Code:     "LED.DRIVER",
		Summary:  "LED driver " + selected,
		Evidence: map[string]any{"requested": requested, "selected": selected},
	}
	if requested != selected {
		d.Severity = Warn
		d.Code = "LED.DRIVER_FALLBACK"
		d.Summary = fmt.Sprintf("LED driver %s unavailable, using %s", requested, selected)
		d.LikelyCauses = []string{"SPI disabled in the boot config", "process lacks access to /dev/spidev*"}
		d.SuggestedFixes = []string{"enable SPI (dtparam=spi=on)", "add the user to the spi group"}
	}
	return d
}

// TransmitFailed describes a fatal LED write.
func TransmitFailed(hue int, grb [3]uint8, err error) Diagnostic {
	return Diagnostic{
		Severity:     Err,
		Code:         "LED.TX_FAILED",
		Summary:      "LED write failed; animation halted",
		Detail:       err.Error(),
		LikelyCauses: []string{"peripheral not ready", "bus disconnected"},
		Evidence:     map[string]any{"hue": hue, "grb": grb},
	}
}

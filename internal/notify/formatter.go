package notify

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"fomolt3d-engine/internal/triggers"
)

const (
	colorRoundStart = 0x57F287
	colorRoundEnd   = 0xED4245
	colorDrama      = 0xFEE75C
	colorMilestone  = 0x5865F2

	shortAddressLimit = 8
	defaultFooter     = "fomolt3d engine"
)

// FormatMessage renders one trigger event for delivery. Unknown types
// report false and are dropped upstream.
func FormatMessage(ev triggers.Event, at time.Time) (FormattedMessage, bool) {
	base := FormattedMessage{
		Timestamp: at.UTC().Format(time.RFC3339),
		Footer:    defaultFooter,
	}
	fields := make([]MessageField, 0, 4)

	switch ev.Type {
	case triggers.TypeRoundStart:
		base.Title = fmt.Sprintf("Round %d started", ev.Round)
		base.Content = fmt.Sprintf("round %d is live, pot opens at %s", ev.Round, solText(ev.PotLamports))
		base.Description = fmt.Sprintf("A new round is live. The pot opens at %s.", solText(ev.PotLamports))
		base.Color = colorRoundStart
		fields = append(fields,
			MessageField{Name: "Round", Value: strconv.FormatUint(ev.Round, 10), Inline: true},
			MessageField{Name: "Pot", Value: solText(ev.PotLamports), Inline: true},
		)
	case triggers.TypeRoundEnd:
		base.Title = fmt.Sprintf("Round %d is over", ev.Round)
		base.Content = fmt.Sprintf("%s takes the pot of %s", shortAddress(ev.LastBuyer), solText(ev.PotLamports))
		base.Description = fmt.Sprintf("The timer hit zero. %s held the last key.", shortAddress(ev.LastBuyer))
		base.Color = colorRoundEnd
		fields = append(fields,
			MessageField{Name: "Round", Value: strconv.FormatUint(ev.Round, 10), Inline: true},
			MessageField{Name: "Winner", Value: shortAddress(ev.LastBuyer), Inline: true},
			MessageField{Name: "Pot", Value: solText(ev.PotLamports), Inline: true},
		)
	case triggers.TypeTimerDrama:
		base.Title = fmt.Sprintf("%ds left in round %d", ev.RemainingSecs, ev.Round)
		base.Content = fmt.Sprintf("%ds on the clock, %s holds the last key", ev.RemainingSecs, shortAddress(ev.LastBuyer))
		base.Description = fmt.Sprintf("The timer is nearly out. %s wins %s if nobody buys.", shortAddress(ev.LastBuyer), solText(ev.PotLamports))
		base.Color = colorDrama
		fields = append(fields,
			MessageField{Name: "Remaining", Value: fmt.Sprintf("%ds", ev.RemainingSecs), Inline: true},
			MessageField{Name: "Last buyer", Value: shortAddress(ev.LastBuyer), Inline: true},
			MessageField{Name: "Pot", Value: solText(ev.PotLamports), Inline: true},
		)
	case triggers.TypePotMilestone:
		base.Title = fmt.Sprintf("Pot crossed %s", solText(ev.ThresholdLamports))
		base.Content = fmt.Sprintf("round %d pot is now %s", ev.Round, solText(ev.PotLamports))
		base.Description = fmt.Sprintf("The round %d pot crossed %s and sits at %s.", ev.Round, solText(ev.ThresholdLamports), solText(ev.PotLamports))
		base.Color = colorMilestone
		fields = append(fields,
			MessageField{Name: "Round", Value: strconv.FormatUint(ev.Round, 10), Inline: true},
			MessageField{Name: "Pot", Value: solText(ev.PotLamports), Inline: true},
		)
	default:
		return FormattedMessage{}, false
	}

	base.Fields = fields
	return base, true
}

const lamportsPerSol = 1_000_000_000

func solText(lamports uint64) string {
	whole := lamports / lamportsPerSol
	frac := lamports % lamportsPerSol
	if frac == 0 {
		return fmt.Sprintf("%d SOL", whole)
	}
	s := strings.TrimRight(fmt.Sprintf("%09d", frac), "0")
	return fmt.Sprintf("%d.%s SOL", whole, s)
}

func shortAddress(addr string) string {
	if addr == "" {
		return "nobody"
	}
	if len(addr) <= shortAddressLimit {
		return addr
	}
	return addr[:4] + ".." + addr[len(addr)-4:]
}

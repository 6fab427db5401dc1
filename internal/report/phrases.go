package report

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Alias1177/WyckoffTape/internal/model"
)

type Lang string

const (
	English Lang = "en"
	Spanish Lang = "es"
)

// ParseLang accepts "en" or "es" in any case.
func ParseLang(s string) (Lang, error) {
	switch Lang(strings.ToLower(strings.TrimSpace(s))) {
	case English:
		return English, nil
	case Spanish:
		return Spanish, nil
	default:
		return "", fmt.Errorf("unsupported language %q", s)
	}
}

type phrase struct{ en, es string }

func (p phrase) in(lang Lang) string {
	if lang == Spanish {
		return p.es
	}
	return p.en
}

var fixedPhrases = map[string]phrase{
	string(model.MacroBullish):          {"bullish macro trend", "tendencia macro alcista"},
	string(model.MacroBearish):          {"bearish macro trend", "tendencia macro bajista"},
	string(model.MacroLateral):          {"lateral macro trend", "tendencia macro lateral"},
	"structure_trending":                {"trending structure", "estructura en tendencia"},
	string(model.PositionUpper):         {"price in the upper third of the range", "precio en el tercio superior del rango"},
	string(model.PositionMiddle):        {"price in the middle third of the range", "precio en el tercio medio del rango"},
	string(model.PositionLower):         {"price in the lower third of the range", "precio en el tercio inferior del rango"},
	string(model.VolatilityExpanding):   {"volatility expanding", "volatilidad expandiéndose"},
	string(model.VolatilityContracting): {"volatility contracting", "volatilidad contrayéndose"},
	string(model.VolatilityNormal):      {"normal volatility", "volatilidad normal"},
	string(model.VolumeDescending):      {"volume drying up", "volumen descendente, secándose"},
	string(model.VolumeAscending):       {"volume rising", "volumen ascendente"},
	string(model.VolumeFlat):            {"flat volume", "volumen plano"},
	string(model.RSIOverbought):         {"RSI overbought", "RSI en sobrecompra"},
	string(model.RSIOversold):           {"RSI oversold", "RSI en sobreventa"},
	string(model.RSINeutral):            {"RSI in the neutral zone", "RSI en zona neutral"},
	model.TokenVeryLowVolume:            {"current candle on very low volume", "vela actual con volumen muy bajo"},
	model.TokenBullishClose:             {"current candle closed bullish", "vela actual con cierre alcista"},
	model.TokenBearishClose:             {"current candle closed bearish", "vela actual con cierre bajista"},
	"event_none_detected":               {"no event detected", "ningún evento detectado"},
}

var categoryPhrases = map[model.TrendCategory]phrase{
	model.BearishReversal:   {"Bearish reversal", "Reversión bajista"},
	model.BullishReversal:   {"Bullish reversal", "Reversión alcista"},
	model.EMA50BreakoutUp:   {"EMA50 breakout up", "Ruptura EMA50 al alza"},
	model.EMA50BreakoutDown: {"EMA50 breakout down", "Ruptura EMA50 a la baja"},
	model.BearishDivergence: {"Bearish divergence", "Divergencia bajista"},
	model.BullishDivergence: {"Bullish divergence", "Divergencia alcista"},
	model.GoldenCross:       {"Golden cross", "Golden Cross"},
	model.DeathCross:        {"Death cross", "Death Cross"},
}

var descriptionPhrases = map[model.TrendCategory]string{
	model.BearishReversal:   "Posible techo formado",
	model.BullishReversal:   "Posible suelo formado",
	model.EMA50BreakoutUp:   "Precio rompe EMA50 al alza",
	model.EMA50BreakoutDown: "Precio rompe EMA50 a la baja",
	model.BearishDivergence: "Precio sube pero RSI baja (sobrecompra)",
	model.BullishDivergence: "Precio baja pero RSI sube (sobreventa)",
	model.GoldenCross:       "EMA50 cruza EMA200 al alza",
	model.DeathCross:        "EMA50 cruza EMA200 a la baja",
}

// Phrase renders one tape token as a human phrase. A token holding several
// space-separated parts is rendered part by part. Unknown tokens are returned
// unchanged.
func Phrase(token string, lang Lang) string {
	if parts := strings.Fields(token); len(parts) > 1 {
		out := make([]string, len(parts))
		for i, p := range parts {
			out[i] = Phrase(p, lang)
		}
		return strings.Join(out, ", ")
	}

	if p, ok := fixedPhrases[token]; ok {
		return p.in(lang)
	}

	switch {
	case strings.HasPrefix(token, "asset_"):
		return phrase{"asset ", "activo "}.in(lang) + strings.TrimPrefix(token, "asset_")
	case strings.HasPrefix(token, "interval_"):
		return phrase{"interval ", "temporalidad "}.in(lang) + strings.TrimPrefix(token, "interval_")
	case strings.HasPrefix(token, "structure_range_from_"):
		if lo, hi, ok := strings.Cut(strings.TrimPrefix(token, "structure_range_from_"), "_to_"); ok {
			return fmt.Sprintf(phrase{"range structure from %s to %s", "estructura en rango de %s a %s"}.in(lang), lo, hi)
		}
	case strings.HasPrefix(token, "event_spring_detected_at_candle_"):
		if offset, ok := parseOffset(token, "event_spring_detected_at_candle_"); ok {
			return fmt.Sprintf(phrase{"spring detected at candle %d", "spring detectado en la vela %d"}.in(lang), offset)
		}
	case strings.HasPrefix(token, "event_spring_confirmation_at_candle_"):
		if offset, ok := parseOffset(token, "event_spring_confirmation_at_candle_"); ok {
			return fmt.Sprintf(phrase{"spring confirmation at candle %d", "confirmación de spring en la vela %d"}.in(lang), offset)
		}
	}
	return token
}

func parseOffset(token, prefix string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimPrefix(token, prefix))
	return n, err == nil
}

// Describe renders every token of a translation, in tape order.
func Describe(t *model.Translation, lang Lang) []string {
	tokens := t.Tokens()
	out := make([]string, len(tokens))
	for i, tok := range tokens {
		out[i] = Phrase(tok, lang)
	}
	return out
}

// CategoryName is the display name of a trend-change category.
func CategoryName(c model.TrendCategory, lang Lang) string {
	if p, ok := categoryPhrases[c]; ok {
		return p.in(lang)
	}
	return string(c)
}

// Description localizes an event description; English descriptions are the
// detector's own.
func Description(c model.TrendChange, lang Lang) string {
	if lang == Spanish {
		if d, ok := descriptionPhrases[c.Category]; ok {
			return d
		}
	}
	return c.Description
}

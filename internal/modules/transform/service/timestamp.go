package service

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/samber/oops"

	"github.com/reshetovitsme/channel-editor-bot/internal/shared/config"
)

var (
	bareTimeRe = regexp.MustCompile(`\d{2}:\d{2}(?::\d{2})?`)
	timeDateRe = regexp.MustCompile(`(\d{2}:\d{2}(?::\d{2})?) (\d{2}/\d{2}/\d{4})`)
	dateTimeRe = regexp.MustCompile(`(\d{2}/\d{2}/\d{4}) (\d{2}:\d{2}(?::\d{2})?)`)
)

const dateLayout = "02/01/2006"

// Converter rewrites timestamp tokens under the configured clock policy:
// either a fixed duration added to every time, or a conversion between two
// named timezones.
type Converter struct {
	mode          config.TimeMode
	offsetHours   int
	offsetMinutes int
	source        *time.Location
	target        *time.Location
	markedTimeRe  *regexp.Regexp
	now           func() time.Time
}

// NewConverter builds a converter from the time policy in config. Timezone
// names were already validated at startup; they are resolved again here
// because the converter owns the locations.
func NewConverter(tc config.TimeConfig) (*Converter, error) {
	c := &Converter{
		mode:          tc.Mode,
		offsetHours:   tc.OffsetHours,
		offsetMinutes: tc.OffsetMinutes,
		now:           time.Now,
	}

	if tc.Marker != "" {
		c.markedTimeRe = regexp.MustCompile(regexp.QuoteMeta(tc.Marker) + `\s*(\d{2}:\d{2}(?::\d{2})?)`)
	}

	if tc.Mode == config.TimeModeTimezone {
		source, err := time.LoadLocation(tc.SourceTimezone)
		if err != nil {
			return nil, oops.With("timezone", tc.SourceTimezone).Wrap(err)
		}
		target, err := time.LoadLocation(tc.TargetTimezone)
		if err != nil {
			return nil, oops.With("timezone", tc.TargetTimezone).Wrap(err)
		}
		c.source = source
		c.target = target
	}

	return c, nil
}

// replacement is one pending rewrite of a consumed span.
type replacement struct {
	start, end int
	text       string
}

// Shift rewrites every recognized timestamp token in text. Tokens are
// found in a single tokenizing pass: combined date+time tokens first, then
// marker-prefixed bare times, then bare times. A span consumed by a
// higher-priority token is never rescanned, so a bare time inside a
// combined token is converted exactly once. A token whose conversion fails
// is left unchanged and reported in its outcome.
func (c *Converter) Shift(text string) (string, []TokenOutcome) {
	var (
		consumed     []replacement
		replacements []replacement
		outcomes     []TokenOutcome
	)

	claim := func(start, end int) bool {
		for _, r := range consumed {
			if start < r.end && end > r.start {
				return false
			}
		}
		consumed = append(consumed, replacement{start: start, end: end})
		return true
	}

	convertAt := func(start, end, replStart, replEnd int, convert func(string) (string, error)) {
		if !claim(start, end) {
			return
		}
		token := text[replStart:replEnd]
		converted, err := convert(token)
		outcome := TokenOutcome{Token: token, Converted: converted, Err: err}
		if err == nil && converted != token {
			replacements = append(replacements, replacement{start: replStart, end: replEnd, text: converted})
		}
		outcomes = append(outcomes, outcome)
	}

	if c.mode == config.TimeModeTimezone {
		for _, m := range timeDateRe.FindAllStringSubmatchIndex(text, -1) {
			convertAt(m[0], m[1], m[0], m[1], func(tok string) (string, error) {
				return c.convertCombined(text[m[2]:m[3]], text[m[4]:m[5]], true)
			})
		}
		for _, m := range dateTimeRe.FindAllStringSubmatchIndex(text, -1) {
			convertAt(m[0], m[1], m[0], m[1], func(tok string) (string, error) {
				return c.convertCombined(text[m[4]:m[5]], text[m[2]:m[3]], false)
			})
		}
		if c.markedTimeRe != nil {
			for _, m := range c.markedTimeRe.FindAllStringSubmatchIndex(text, -1) {
				// The marker stays; only the time group is rewritten.
				convertAt(m[0], m[1], m[2], m[3], c.convertBare)
			}
		}
	}

	for _, m := range bareTimeRe.FindAllStringIndex(text, -1) {
		convertAt(m[0], m[1], m[0], m[1], c.convertTime)
	}

	if len(replacements) == 0 {
		return text, outcomes
	}

	sort.Slice(replacements, func(i, j int) bool {
		return replacements[i].start < replacements[j].start
	})

	var b strings.Builder
	last := 0
	for _, r := range replacements {
		b.WriteString(text[last:r.start])
		b.WriteString(r.text)
		last = r.end
	}
	b.WriteString(text[last:])

	return b.String(), outcomes
}

// convertTime dispatches a bare time token to the configured policy.
func (c *Converter) convertTime(token string) (string, error) {
	if c.mode == config.TimeModeTimezone {
		return c.convertBare(token)
	}
	return c.addOffset(token)
}

// addOffset adds the fixed duration with explicit minute carry and hour
// wraparound modulo 24. No date rollover is signalled.
func (c *Converter) addOffset(token string) (string, error) {
	clock, err := parseClock(token)
	if err != nil {
		return "", err
	}

	clock.minute += c.offsetMinutes
	clock.hour += clock.minute / 60
	clock.minute %= 60
	clock.hour = ((clock.hour+c.offsetHours)%24 + 24) % 24

	return clock.String(), nil
}

// convertBare anchors a dateless time to the current date in the source
// timezone, converts it, and re-emits only the time of day.
func (c *Converter) convertBare(token string) (string, error) {
	clock, err := parseClock(token)
	if err != nil {
		return "", err
	}

	now := c.now().In(c.source)
	src := time.Date(now.Year(), now.Month(), now.Day(), clock.hour, clock.minute, clock.second, 0, c.source)
	return src.In(c.target).Format(clock.layout()), nil
}

// convertCombined converts a calendar instant between the timezones,
// preserving the original field order. The date field may roll when the
// conversion crosses midnight.
func (c *Converter) convertCombined(timeStr, dateStr string, timeFirst bool) (string, error) {
	clock, err := parseClock(timeStr)
	if err != nil {
		return "", err
	}

	date, err := time.ParseInLocation(dateLayout, dateStr, c.source)
	if err != nil {
		return "", oops.With("date", dateStr).Wrap(err)
	}

	src := time.Date(date.Year(), date.Month(), date.Day(), clock.hour, clock.minute, clock.second, 0, c.source)
	dst := src.In(c.target)

	if timeFirst {
		return dst.Format(clock.layout()) + " " + dst.Format(dateLayout), nil
	}
	return dst.Format(dateLayout) + " " + dst.Format(clock.layout()), nil
}

type clockTime struct {
	hour, minute, second int
	hasSeconds           bool
}

func (t clockTime) layout() string {
	if t.hasSeconds {
		return "15:04:05"
	}
	return "15:04"
}

func (t clockTime) String() string {
	if t.hasSeconds {
		return fmt.Sprintf("%02d:%02d:%02d", t.hour, t.minute, t.second)
	}
	return fmt.Sprintf("%02d:%02d", t.hour, t.minute)
}

// parseClock validates the field ranges itself: time.Date silently
// normalizes out-of-range values, and an unparseable token must be left
// in the text unchanged.
func parseClock(token string) (clockTime, error) {
	parts := strings.Split(token, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return clockTime{}, oops.Errorf("malformed time token: %s", token)
	}

	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour > 23 {
		return clockTime{}, oops.Errorf("invalid hour in token: %s", token)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute > 59 {
		return clockTime{}, oops.Errorf("invalid minute in token: %s", token)
	}

	t := clockTime{hour: hour, minute: minute}
	if len(parts) == 3 {
		second, err := strconv.Atoi(parts[2])
		if err != nil || second > 59 {
			return clockTime{}, oops.Errorf("invalid second in token: %s", token)
		}
		t.second = second
		t.hasSeconds = true
	}

	return t, nil
}

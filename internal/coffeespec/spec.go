// Package coffeespec turns free text drink requests such as
// "large skim flat white, 2 sugars" into a structured Spec and back.
package coffeespec

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/dlclark/regexp2"
)

var (
	ErrEmptyRequest = errors.New("coffee request is empty")
	ErrUnknownType  = errors.New("coffee type not recognised")
	ErrTooMuchSugar = fmt.Errorf("more than %d sugars", MaxSugar)
)

const MaxSugar = 10

type Size string

const (
	SizeSmall  Size = "S"
	SizeMedium Size = "M"
	SizeLarge  Size = "L"
)

// Sizes lists every valid size in display order.
var Sizes = []Size{SizeSmall, SizeMedium, SizeLarge}

func (s Size) Valid() bool {
	switch s {
	case SizeSmall, SizeMedium, SizeLarge:
		return true
	}
	return false
}

func (s Size) Name() string {
	switch s {
	case SizeSmall:
		return "Small"
	case SizeLarge:
		return "Large"
	default:
		return "Medium"
	}
}

// Types are matched longest first so "chai latte" wins over "latte".
var Types = []string{
	"hot chocolate",
	"chai latte",
	"long black",
	"short black",
	"flat white",
	"long macchiato",
	"short macchiato",
	"cappuccino",
	"babyccino",
	"macchiato",
	"espresso",
	"americano",
	"piccolo",
	"latte",
	"mocha",
	"chai",
	"tea",
}

type Spec struct {
	Type     string `json:"type"`
	Size     Size   `json:"size"`
	Sugar    int    `json:"sugar"`
	Milk     string `json:"milk,omitempty"`
	Strength string `json:"strength,omitempty"`
	Decaf    bool   `json:"decaf,omitempty"`
	Iced     bool   `json:"iced,omitempty"`
	Request  string `json:"request"`
}

var (
	typeExp     = mustCompile(`(?<!\w)(?<type>` + strings.Join(Types, "|") + `)(?!\w)`)
	sizeExp     = mustCompile(`(?<!\w)(?<size>small|regular|medium|large|sml|med|lrg)(?!\w)`)
	sugarExp    = mustCompile(`(?<!\w)(?<n>\d+|no|one|two|three|four|five)\s*sugars?(?!\w)`)
	milkExp     = mustCompile(`(?<!\w)(?<milk>skim|skinny|soy|almond|oat|lactose[ -]free|full cream)(?!\w)`)
	strengthExp = mustCompile(`(?<!\w)(?<strength>extra shot|double shot|half strength|strong|weak)(?!\w)`)
	decafExp    = mustCompile(`(?<!\w)decaf(?:feinated)?(?!\w)`)
	icedExp     = mustCompile(`(?<!\w)iced(?!\w)`)
)

func mustCompile(pattern string) *regexp2.Regexp {
	return regexp2.MustCompile(pattern, regexp2.IgnoreCase)
}

var sugarWords = map[string]int{"no": 0, "one": 1, "two": 2, "three": 3, "four": 4, "five": 5}

// Parse reads a raw drink request. The coffee type is mandatory; size
// defaults to medium and sugar to none.
func Parse(raw string) (Spec, error) {
	request := strings.Join(strings.Fields(raw), " ")
	if request == "" {
		return Spec{}, ErrEmptyRequest
	}

	spec := Spec{Size: SizeMedium, Request: request}

	kind, err := group(typeExp, request, "type")
	if err != nil {
		return Spec{}, err
	}
	if kind == "" {
		return Spec{}, fmt.Errorf("%w: %q", ErrUnknownType, request)
	}
	spec.Type = strings.ToLower(kind)

	size, err := group(sizeExp, request, "size")
	if err != nil {
		return Spec{}, err
	}
	switch strings.ToLower(size) {
	case "small", "sml":
		spec.Size = SizeSmall
	case "large", "lrg":
		spec.Size = SizeLarge
	}

	sugar, err := group(sugarExp, request, "n")
	if err != nil {
		return Spec{}, err
	}
	if sugar != "" {
		if n, ok := sugarWords[strings.ToLower(sugar)]; ok {
			spec.Sugar = n
		} else {
			n, convErr := strconv.Atoi(sugar)
			if convErr != nil || n > MaxSugar {
				return Spec{}, fmt.Errorf("%w: %q", ErrTooMuchSugar, sugar)
			}
			spec.Sugar = n
		}
	}

	milk, err := group(milkExp, request, "milk")
	if err != nil {
		return Spec{}, err
	}
	spec.Milk = normaliseMilk(milk)

	strength, err := group(strengthExp, request, "strength")
	if err != nil {
		return Spec{}, err
	}
	spec.Strength = strings.ToLower(strength)

	if spec.Decaf, err = decafExp.MatchString(request); err != nil {
		return Spec{}, err
	}
	if spec.Iced, err = icedExp.MatchString(request); err != nil {
		return Spec{}, err
	}

	return spec, nil
}

func group(exp *regexp2.Regexp, s, name string) (string, error) {
	m, err := exp.FindStringMatch(s)
	if err != nil {
		return "", fmt.Errorf("exp.FindStringMatch -> %w", err)
	}
	if m == nil {
		return "", nil
	}

	return m.GroupByName(name).String(), nil
}

func normaliseMilk(milk string) string {
	milk = strings.ToLower(milk)
	switch milk {
	case "skinny":
		return "skim"
	case "lactose free", "lactose-free":
		return "lactose free"
	case "full cream":
		return ""
	}
	return milk
}

// Modifiers names the extras that may cost more at a cafe, matching
// PriceModifier types.
func (s Spec) Modifiers() []string {
	var mods []string
	if s.Milk != "" {
		mods = append(mods, s.Milk+" milk")
	}
	switch s.Strength {
	case "extra shot", "double shot", "strong":
		mods = append(mods, "extra shot")
	}
	if s.Decaf {
		mods = append(mods, "decaf")
	}
	if s.Iced {
		mods = append(mods, "iced")
	}
	return mods
}

func (s Spec) String() string {
	var b strings.Builder

	b.WriteString(s.Size.Name())
	if s.Iced {
		b.WriteString(" iced")
	}
	if s.Decaf {
		b.WriteString(" decaf")
	}
	b.WriteString(" ")
	b.WriteString(titleCase(s.Type))

	var extras []string
	if s.Milk != "" {
		extras = append(extras, s.Milk+" milk")
	}
	if s.Strength != "" {
		extras = append(extras, s.Strength)
	}
	switch s.Sugar {
	case 0:
	case 1:
		extras = append(extras, "1 sugar")
	default:
		extras = append(extras, fmt.Sprintf("%d sugars", s.Sugar))
	}
	if len(extras) > 0 {
		b.WriteString(", ")
		b.WriteString(strings.Join(extras, ", "))
	}

	return b.String()
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

func (s Spec) JSON() ([]byte, error) {
	return json.Marshal(s)
}

func FromJSON(data []byte) (Spec, error) {
	var s Spec
	if err := json.Unmarshal(data, &s); err != nil {
		return Spec{}, fmt.Errorf("json.Unmarshal -> %w", err)
	}

	return s, nil
}

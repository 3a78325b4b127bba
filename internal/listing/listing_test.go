package listing

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleAnswers() Answers {
	return Answers{
		CarTitle:    "Audi A4 B8",
		Engine:      "2.0 TDI",
		Gearbox:     "manual",
		Mileage:     "210000 km",
		City:        "Lviv",
		Price:       "9500$",
		Contacts:    "+380 00 000 0000",
		Description: "One owner, full service history.",
	}
}

func TestRenderIsDeterministic(t *testing.T) {
	a := sampleAnswers()
	tags := []string{"#manual", "#sedan"}
	assert.Equal(t, Render(a, tags, "footer"), Render(a, tags, "footer"))
}

func TestRenderEscapesEveryField(t *testing.T) {
	a := Answers{
		CarTitle:    "<b>BMW</b>",
		Engine:      "3.0 & turbo",
		Gearbox:     `"auto"`,
		Mileage:     "<100k>",
		City:        "Kyiv<script>",
		Price:       "5 < 6",
		Contacts:    "a&b",
		Description: "<i>mint</i>",
	}
	out := Render(a, nil, "")

	for _, raw := range []string{"<b>BMW</b>", "<script>", "<i>mint</i>", "<100k>", "3.0 & turbo", "a&b", "5 < 6"} {
		assert.NotContains(t, out, raw)
	}
	assert.Contains(t, out, "&lt;b&gt;BMW&lt;/b&gt;")
	assert.Contains(t, out, "3.0 &amp; turbo")
	assert.Contains(t, out, "&#34;auto&#34;")
	assert.Contains(t, out, "&lt;i&gt;mint&lt;/i&gt;")
}

func TestRenderLayout(t *testing.T) {
	a := sampleAnswers()

	withoutTags := Render(a, nil, "📢 footer")
	lines := strings.Split(withoutTags, "\n")
	assert.Equal(t, "📢 footer", lines[len(lines)-1])
	assert.True(t, strings.HasPrefix(withoutTags, "🚗 <b>Audi A4 B8</b>"))
	for _, v := range []string{a.Engine, a.Gearbox, a.Mileage, a.City, a.Price, a.Contacts, a.Description} {
		assert.Contains(t, withoutTags, v)
	}

	withTags := Render(a, []string{"#manual", "#diesel"}, "📢 footer")
	lines = strings.Split(withTags, "\n")
	assert.Equal(t, "#manual #diesel", lines[len(lines)-1])
	assert.True(t, strings.HasPrefix(withTags, withoutTags))
}

func TestToggleTagIsAnInvolution(t *testing.T) {
	base := []string{"#sedan", "#diesel", "#manual"}

	for _, tag := range append(AllTags(), base...) {
		got := ToggleTag(ToggleTag(base, tag), tag)
		assert.ElementsMatch(t, base, got, "tag %s", tag)

		var untouchedBefore, untouchedAfter []string
		for _, s := range base {
			if s != tag {
				untouchedBefore = append(untouchedBefore, s)
			}
		}
		for _, s := range got {
			if s != tag {
				untouchedAfter = append(untouchedAfter, s)
			}
		}
		assert.Equal(t, untouchedBefore, untouchedAfter, "tag %s", tag)
	}
}

func TestToggleTagDoesNotAliasInput(t *testing.T) {
	base := make([]string, 1, 4)
	base[0] = "#suv"
	added := ToggleTag(base, "#lpg")
	removed := ToggleTag(added, "#suv")

	assert.Equal(t, []string{"#suv"}, base)
	assert.Equal(t, []string{"#suv", "#lpg"}, added)
	assert.Equal(t, []string{"#lpg"}, removed)
}

func TestTagAt(t *testing.T) {
	all := AllTags()
	require.NotEmpty(t, all)

	tag, ok := TagAt(0)
	require.True(t, ok)
	assert.Equal(t, all[0], tag)
	assert.True(t, IsKnownTag(tag))

	_, ok = TagAt(len(all))
	assert.False(t, ok)
	_, ok = TagAt(-1)
	assert.False(t, ok)
	assert.False(t, IsKnownTag("#spaceship"))
}

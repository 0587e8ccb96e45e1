// Package catalog holds the bilingual preset exercises and the rules for
// turning a picked exercise into a catalog entry at the store.
package catalog

import "strings"

// Lang selects which name is shown first.
type Lang string

const (
	LangTW Lang = "tw"
	LangEN Lang = "en"
)

// Item is a preset exercise or category label in both languages.
type Item struct {
	EN string
	TW string
}

// CanonicalName is the name stored at the store: "<tw> (<en>)". Using a
// single form keeps "A (B)" and "B (A)" from both being created.
func (i Item) CanonicalName() string {
	return i.TW + " (" + i.EN + ")"
}

// LegacyName is the flipped form found in older data.
func (i Item) LegacyName() string {
	return i.EN + " (" + i.TW + ")"
}

// DisplayName renders the item with the preferred language first.
func (i Item) DisplayName(lang Lang) string {
	if lang == LangEN {
		return i.LegacyName()
	}
	return i.CanonicalName()
}

// Category is a muscle group with its presets.
type Category struct {
	Key   string
	Label Item
	Items []Item
}

// Categories lists the presets in display order.
var Categories = []Category{
	{Key: "Chest", Label: Item{EN: "Chest", TW: "胸部"}, Items: []Item{
		{EN: "Barbell Bench Press", TW: "槓鈴臥推"},
		{EN: "Incline Dumbbell Press", TW: "上斜啞鈴臥推"},
		{EN: "Machine Fly", TW: "器械夾胸"},
		{EN: "Push-ups", TW: "伏地挺身"},
	}},
	{Key: "Back", Label: Item{EN: "Back", TW: "背部"}, Items: []Item{
		{EN: "Deadlift", TW: "硬舉"},
		{EN: "Pull-ups", TW: "引體向上"},
		{EN: "Lat Pulldown", TW: "滑輪下拉"},
		{EN: "Seated Row", TW: "坐姿划船"},
		{EN: "Dumbbell Row", TW: "啞鈴划船"},
	}},
	{Key: "Legs", Label: Item{EN: "Legs", TW: "腿部"}, Items: []Item{
		{EN: "Barbell Squat", TW: "槓鈴深蹲"},
		{EN: "Leg Press", TW: "腿推機"},
		{EN: "Leg Extension", TW: "腿屈伸"},
		{EN: "Bulgarian Split Squat", TW: "保加利亞單腿蹲"},
	}},
	{Key: "Shoulders", Label: Item{EN: "Shoulders", TW: "肩部"}, Items: []Item{
		{EN: "Overhead Press", TW: "站姿肩推"},
		{EN: "Dumbbell Shoulder Press", TW: "啞鈴肩推"},
		{EN: "Lateral Raise", TW: "側平舉"},
	}},
	{Key: "Arms", Label: Item{EN: "Arms", TW: "手臂"}, Items: []Item{
		{EN: "Bicep Curl", TW: "二頭彎舉"},
		{EN: "Tricep Pushdown", TW: "三頭下壓"},
	}},
}

// FindCategory looks up a category by key, case-insensitively.
func FindCategory(key string) (Category, bool) {
	for _, c := range Categories {
		if strings.EqualFold(c.Key, key) {
			return c, true
		}
	}
	return Category{}, false
}

// Lookup finds the preset whose English, Chinese, canonical or legacy name
// equals name, ignoring case.
func Lookup(name string) (Item, bool) {
	name = strings.TrimSpace(name)
	for _, c := range Categories {
		for _, it := range c.Items {
			for _, candidate := range []string{it.EN, it.TW, it.CanonicalName(), it.LegacyName()} {
				if strings.EqualFold(candidate, name) {
					return it, true
				}
			}
		}
	}
	return Item{}, false
}

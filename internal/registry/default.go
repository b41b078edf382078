package registry

// Default returns the built-in card-field registry. Callers that need
// a different schema load their own descriptor list instead.
func Default() *Registry {
	return MustNew(DefaultFields())
}

// DefaultFields returns the descriptor list behind Default. The slice
// is freshly allocated so callers may extend it before building a
// registry.
func DefaultFields() []Field {
	return []Field{
		{
			Name:          "name",
			Aliases:       []string{"n"},
			Type:          Text,
			Column:        "name",
			SupportsRegex: true,
			Bare:          true,
		},
		{
			Name:          "type",
			Aliases:       []string{"t"},
			Type:          Text,
			Column:        "type_line",
			SupportsRegex: true,
		},
		{
			Name:          "oracle",
			Aliases:       []string{"o", "text"},
			Type:          Text,
			Column:        "oracle_text",
			SupportsRegex: true,
		},
		{
			Name:        "flavor",
			Aliases:     []string{"ft"},
			Type:        Text,
			FaceColumns: [2]string{"front_flavor", "back_flavor"},
		},
		{
			Name:               "cmc",
			Aliases:            []string{"mv", "manavalue"},
			Type:               Numeric,
			Column:             "cmc",
			SupportsArithmetic: true,
		},
		{
			Name:               "power",
			Aliases:            []string{"pow"},
			Type:               Numeric,
			FaceColumns:        [2]string{"front_power", "back_power"},
			SupportsArithmetic: true,
		},
		{
			Name:               "toughness",
			Aliases:            []string{"tou"},
			Type:               Numeric,
			FaceColumns:        [2]string{"front_toughness", "back_toughness"},
			SupportsArithmetic: true,
		},
		{
			Name:               "loyalty",
			Aliases:            []string{"loy"},
			Type:               Numeric,
			FaceColumns:        [2]string{"front_loyalty", "back_loyalty"},
			SupportsArithmetic: true,
		},
		{
			Name:        "color",
			Aliases:     []string{"c"},
			Type:        Color,
			Column:      "colors",
			FaceColumns: [2]string{"front_colors", "back_colors"},
		},
		{
			Name:    "identity",
			Aliases: []string{"id", "ci"},
			Type:    ColorIdentity,
			Column:  "color_identity",
		},
		{
			Name:    "keyword",
			Aliases: []string{"kw"},
			Type:    Keyword,
			Column:  "keywords",
			SetMode: SetArray,
		},
		{
			Name:    "tag",
			Aliases: []string{"otag"},
			Type:    Keyword,
			Column:  "tags",
			SetMode: SetArray,
		},
		{
			Name:    "format",
			Aliases: []string{"f", "legal"},
			Type:    Keyword,
			Column:  "legalities",
			SetMode: SetLegality,
			Enum: []string{
				"standard", "pioneer", "modern", "legacy", "vintage",
				"commander", "pauper", "brawl", "penny",
			},
			EnumAliases: map[string]string{
				"edh": "commander",
			},
		},
		{
			Name:    "set",
			Aliases: []string{"s", "e", "edition"},
			Type:    Keyword,
			Column:  "set_code",
			SetMode: SetText,
		},
		{
			Name:    "rarity",
			Aliases: []string{"r"},
			Type:    Keyword,
			Column:  "rarity",
			SetMode: SetText,
			Enum:    []string{"common", "uncommon", "rare", "mythic"},
			EnumAliases: map[string]string{
				"c": "common",
				"u": "uncommon",
				"r": "rare",
				"m": "mythic",
			},
		},
		{
			Name:    "layout",
			Type:    Keyword,
			Column:  "layout",
			SetMode: SetText,
		},
		{
			Name:    "released",
			Aliases: []string{"date", "year"},
			Type:    Date,
			Column:  "released_at",
		},
		{
			Name: "is",
			Type: Boolean,
			Flags: map[string]string{
				"dfc":      "back_name <> ''",
				"reserved": "reserved",
				"promo":    "promo",
				"reprint":  "reprint",
				"foil":     "foil",
			},
		},
	}
}

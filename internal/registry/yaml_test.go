package registry

import (
	"strings"
	"testing"
)

const sampleYAML = `
fields:
  - name: name
    aliases: [n]
    type: text
    column: name
    regex: true
    bare: true
  - name: power
    aliases: [pow]
    type: numeric
    front_column: front_power
    back_column: back_power
    arithmetic: true
  - name: rarity
    aliases: [r]
    type: keyword
    column: rarity
    set_mode: text
    enum: [common, uncommon, rare, mythic]
    enum_aliases:
      c: common
  - name: is
    type: boolean
    flags:
      foil: foil
`

func TestLoadYAML(t *testing.T) {
	reg, err := LoadYAML(strings.NewReader(sampleYAML))
	if err != nil {
		t.Fatalf("LoadYAML: %v", err)
	}
	power, ok := reg.Lookup("pow")
	if !ok {
		t.Fatal("pow alias missing")
	}
	if !power.FaceUnion() || power.FaceColumns[0] != "front_power" {
		t.Errorf("power face columns = %v", power.FaceColumns)
	}
	rarity, _ := reg.Lookup("r")
	if got, ok := rarity.CanonicalValue("c"); !ok || got != "common" {
		t.Errorf("rarity alias c = %q,%v", got, ok)
	}
	if reg.BareField().Name != "name" {
		t.Errorf("bare field = %s", reg.BareField().Name)
	}
}

func TestLoadYAMLRejectsUnknownKeys(t *testing.T) {
	doc := `
fields:
  - name: name
    type: text
    column: name
    bare: true
    regexp: true
`
	if _, err := LoadYAML(strings.NewReader(doc)); err == nil {
		t.Fatal("unknown key should fail to load")
	}
}

func TestLoadYAMLRejectsBadType(t *testing.T) {
	doc := `
fields:
  - name: name
    type: varchar
    column: name
    bare: true
`
	_, err := LoadYAML(strings.NewReader(doc))
	if err == nil || !strings.Contains(err.Error(), "unknown type") {
		t.Fatalf("error = %v, want unknown type", err)
	}
}

func TestLoadYAMLEmpty(t *testing.T) {
	if _, err := LoadYAML(strings.NewReader("fields: []")); err == nil {
		t.Fatal("empty registry should fail to load")
	}
}

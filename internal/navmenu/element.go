package navmenu

import "fmt"

// RefItem is an extra link shown under a guide menu, pointing into the
// reference docs of the same product.
type RefItem struct {
	Label string `yaml:"label" json:"label"`
	Href  string `yaml:"href" json:"href"`
}

// Element is one of the three menu variants.
type Element interface {
	Variant() Type
}

// HomeMenu lists every guide and reference menu.
type HomeMenu struct {
	Guides     []Menu
	References []Menu
}

// GuideMenu is the navigation of one guide section.
type GuideMenu struct {
	ID      MenuID
	Title   string
	RefData []RefItem
}

// ReferenceMenu is the navigation of one reference library.
type ReferenceMenu struct {
	ID                 MenuID
	Title              string
	BasePath           string
	CommonSectionsFile string
	SpecFile           string
}

func (HomeMenu) Variant() Type      { return TypeHome }
func (GuideMenu) Variant() Type     { return TypeGuide }
func (ReferenceMenu) Variant() Type { return TypeReference }

// Element picks the variant for menu. A type outside the closed set is a
// static configuration defect and returns ErrUnknownMenuType.
func (t *Table) Element(menu Menu, refData []RefItem) (Element, error) {
	switch menu.Type {
	case TypeHome:
		return HomeMenu{Guides: t.OfType(TypeGuide), References: t.OfType(TypeReference)}, nil
	case TypeGuide:
		if refData == nil {
			refData = menu.Refs
		}
		return GuideMenu{ID: menu.ID, Title: menu.Title, RefData: refData}, nil
	case TypeReference:
		return ReferenceMenu{
			ID:                 menu.ID,
			Title:              menu.Title,
			BasePath:           menu.Path,
			CommonSectionsFile: menu.CommonSectionsFile,
			SpecFile:           menu.SpecFile,
		}, nil
	default:
		return nil, fmt.Errorf("%w %q", ErrUnknownMenuType, menu.Type)
	}
}

// MustElement is Element for callers that treat a bad descriptor as fatal.
func (t *Table) MustElement(menu Menu, refData []RefItem) Element {
	el, err := t.Element(menu, refData)
	if err != nil {
		panic(err)
	}
	return el
}

// ForID resolves id (falling back to home) and returns its variant.
func (t *Table) ForID(id MenuID, refData []RefItem) Element {
	return t.MustElement(t.Resolve(id), refData)
}

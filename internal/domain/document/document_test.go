package document

import (
	"encoding/json"
	"reflect"
	"testing"

	"github.com/kailas-cloud/bizsearch/internal/domain"
)

func TestNewCatalog(t *testing.T) {
	c := &domain.Catalog{
		ID:              3,
		Href:            "http://3",
		Name:            "Name",
		Description:     "Description",
		LifecycleStatus: "Obsolete",
		RelatedParty:    []domain.RelatedParty{{ID: "rock"}},
	}

	d := NewCatalog(c)

	if d.Key() != "catalog:3" {
		t.Errorf("Key() = %q, want catalog:3", d.Key())
	}
	if d.SortedID != "000000000003" {
		t.Errorf("SortedID = %q", d.SortedID)
	}
	if !reflect.DeepEqual(d.Body, []string{"name", "description"}) {
		t.Errorf("Body = %v", d.Body)
	}
	if !reflect.DeepEqual(d.RelatedParty, []string{"rock"}) {
		t.Errorf("RelatedParty = %v", d.RelatedParty)
	}
	if !reflect.DeepEqual(d.RelatedPartyHash, []string{domain.HashID("rock")}) {
		t.Errorf("RelatedPartyHash = %v", d.RelatedPartyHash)
	}
	if d.Family() != domain.FamilyCatalogs {
		t.Errorf("Family() = %s", d.Family())
	}
}

func TestSortedID_FixedWidthOrder(t *testing.T) {
	ids := []domain.ID{0, 9, 10, 11, 99, 100, 123456, domain.MaxID}
	want := map[domain.ID]string{
		0:            "000000000000",
		9:            "000000000009",
		10:           "000000000010",
		domain.MaxID: "999999999999",
	}

	sorted := make([]string, len(ids))
	for i, id := range ids {
		sorted[i] = NewCatalog(&domain.Catalog{ID: id}).SortedID
		if len(sorted[i]) != domain.SortedIDWidth {
			t.Errorf("SortedID(%d) = %q, want width %d", id, sorted[i], domain.SortedIDWidth)
		}
		if w, ok := want[id]; ok && sorted[i] != w {
			t.Errorf("SortedID(%d) = %q, want %q", id, sorted[i], w)
		}
	}
	for i := range ids {
		for j := range ids {
			if (ids[i] < ids[j]) != (sorted[i] < sorted[j]) {
				t.Errorf("order of %d, %d differs from %q, %q", ids[i], ids[j], sorted[i], sorted[j])
			}
		}
	}
}

func TestCatalog_JSON(t *testing.T) {
	d := NewCatalog(&domain.Catalog{
		ID:              3,
		Href:            "http://3",
		Name:            "Name",
		Description:     "Description",
		LifecycleStatus: "Obsolete",
		RelatedParty:    []domain.RelatedParty{{ID: "rock"}},
	})

	raw, err := json.Marshal(d)
	if err != nil {
		t.Fatal(err)
	}
	var got map[string]any
	if err := json.Unmarshal(raw, &got); err != nil {
		t.Fatal(err)
	}
	want := map[string]any{
		"id":               "catalog:3",
		"originalId":       float64(3),
		"sortedId":         "000000000003",
		"body":             []any{"name", "description"},
		"relatedParty":     []any{"rock"},
		"relatedPartyHash": []any{domain.HashID("rock")},
		"href":             "http://3",
		"lifecycleStatus":  "Obsolete",
		"name":             "Name",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("json = %v\nwant %v", got, want)
	}
}

func TestNewProduct(t *testing.T) {
	d := NewProduct(&domain.Product{
		ID:              1,
		Name:            "name",
		Brand:           "brand",
		Description:     "Product Description",
		LifecycleStatus: "Active",
		ProductNumber:   "12",
		RelatedParty:    []domain.RelatedParty{{ID: "rock-8"}, {ID: "rock-9"}},
	})

	if !reflect.DeepEqual(d.Body, []string{"name", "brand", "product description"}) {
		t.Errorf("Body = %v", d.Body)
	}
	if len(d.RelatedPartyHash) != len(d.RelatedParty) {
		t.Fatalf("hash list not parallel: %v / %v", d.RelatedPartyHash, d.RelatedParty)
	}
	for i, id := range d.RelatedParty {
		if d.RelatedPartyHash[i] != domain.HashID(id) {
			t.Errorf("hash[%d] does not match %q", i, id)
		}
	}
	fields := d.IndexFields()
	if !reflect.DeepEqual(fields[FieldIsBundle], []string{"false"}) {
		t.Errorf("isBundle = %v", fields[FieldIsBundle])
	}
	if !reflect.DeepEqual(fields["productNumber"], []string{"12"}) {
		t.Errorf("productNumber = %v", fields["productNumber"])
	}
}

func TestNewOffering(t *testing.T) {
	tests := []struct {
		name     string
		offering domain.Offering
		wantSpec string
	}{
		{
			name: "plain offering pads product specification",
			offering: domain.Offering{
				ID: 2, Name: "name", Catalog: 2,
				ProductSpecification: &domain.Ref{ID: 1},
			},
			wantSpec: "000000000001",
		},
		{
			name: "bundle drops product specification",
			offering: domain.Offering{
				ID: 3, Name: "name", Catalog: 2, IsBundle: true,
				ProductSpecification:   &domain.Ref{ID: 1},
				BundledProductOffering: []domain.Ref{{ID: 2}},
			},
			wantSpec: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewOffering(&tt.offering)
			if d.ProductSpecification != tt.wantSpec {
				t.Errorf("ProductSpecification = %q, want %q", d.ProductSpecification, tt.wantSpec)
			}
			if d.Catalog != "000000000002" {
				t.Errorf("Catalog = %q", d.Catalog)
			}
			if _, ok := d.IndexFields()["relatedParty"]; ok {
				t.Error("offering must not index relatedParty")
			}
		})
	}
}

func TestOffering_SetCategories(t *testing.T) {
	d := NewOffering(&domain.Offering{ID: 12})
	d.SetCategories([]domain.Category{{ID: 13, Name: "testcat13"}, {ID: 14, Name: "testcat14"}})

	if !reflect.DeepEqual(d.CategoriesID, []string{"000000000013", "000000000014"}) {
		t.Errorf("CategoriesID = %v", d.CategoriesID)
	}
	want := []string{domain.HashID("testcat13"), domain.HashID("testcat14")}
	if !reflect.DeepEqual(d.CategoriesName, want) {
		t.Errorf("CategoriesName = %v", d.CategoriesName)
	}
}

func TestNewInventory(t *testing.T) {
	item := &domain.InventoryItem{
		ID:              12,
		Name:            "inventoryName",
		Status:          "status",
		ProductOffering: domain.OfferingRef{ID: 5, Href: "http://myserver.com/catalog/offering/5"},
		RelatedParty:    []domain.RelatedParty{{ID: "rock", Role: "customer"}},
		StartDate:       json.RawMessage("232323232"),
	}

	d := NewInventory(item, domain.OfferingDetail{Name: "OfferName2", Description: "Description2"})

	if !reflect.DeepEqual(d.Body, []string{"offername2", "description2"}) {
		t.Errorf("Body = %v", d.Body)
	}
	if d.ProductOffering != 5 {
		t.Errorf("ProductOffering = %d", d.ProductOffering)
	}
	if got := d.IndexFields()[FieldProductOffering]; !reflect.DeepEqual(got, []string{"5"}) {
		t.Errorf("indexed productOffering = %v, want unpadded", got)
	}
	if d.Key() != "inventory:12" {
		t.Errorf("Key() = %q", d.Key())
	}
}

func TestNewOrder(t *testing.T) {
	d := NewOrder(&domain.Order{
		ID: 23,
		RelatedParty: []domain.RelatedParty{
			{ID: "rock", Role: "customer"},
			{ID: "user", Role: domain.RoleSeller},
		},
		State: "active",
		Note:  json.RawMessage(`""`),
	})

	if !reflect.DeepEqual(d.RelatedParty, []string{"rock", "user"}) {
		t.Errorf("RelatedParty = %v", d.RelatedParty)
	}
	if !reflect.DeepEqual(d.RelatedPartyHash, []string{domain.HashID("rock")}) {
		t.Errorf("RelatedPartyHash = %v", d.RelatedPartyHash)
	}
	if !reflect.DeepEqual(d.SellerHash, []string{domain.HashID("user")}) {
		t.Errorf("SellerHash = %v", d.SellerHash)
	}
	if _, ok := d.IndexFields()[FieldBody]; ok {
		t.Error("orders have no body")
	}
}

func TestDefaultFieldOptions(t *testing.T) {
	tests := []struct {
		family domain.Family
		want   []string
	}{
		{domain.FamilyCatalogs, []string{FieldLifecycleStatus, FieldBody}},
		{domain.FamilyProducts, []string{FieldLifecycleStatus, FieldBody}},
		{domain.FamilyOfferings, []string{FieldLifecycleStatus, FieldBody}},
		{domain.FamilyInventory, []string{FieldStatus, FieldBody}},
		{domain.FamilyOrders, []string{FieldStatus}},
	}

	for _, tt := range tests {
		t.Run(string(tt.family), func(t *testing.T) {
			opts := DefaultFieldOptions(tt.family)
			if len(opts) != len(tt.want) {
				t.Fatalf("got %d options, want %d", len(opts), len(tt.want))
			}
			for _, f := range tt.want {
				if !opts.Folded(f) {
					t.Errorf("%s should be case-folded", f)
				}
			}
		})
	}
}

func TestFieldOptions_Normalize(t *testing.T) {
	opts := FieldOptions{FieldStatus: {PreserveCase: false}, "name": {PreserveCase: true}}
	in := map[string][]string{
		FieldStatus: {"Active"},
		"name":      {"MixedCase"},
		"other":     {"Other"},
	}

	got := opts.Normalize(in)

	want := map[string][]string{
		FieldStatus: {"active"},
		"name":      {"MixedCase"},
		"other":     {"Other"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Normalize() = %v, want %v", got, want)
	}
	if in[FieldStatus][0] != "Active" {
		t.Error("Normalize must not mutate its input")
	}
}

func TestHit_OriginalID(t *testing.T) {
	h := Hit{Key: "catalog:7", Document: json.RawMessage(`{"id":"catalog:7","originalId":7}`)}
	id, err := h.OriginalID()
	if err != nil {
		t.Fatal(err)
	}
	if id != 7 {
		t.Errorf("OriginalID() = %d, want 7", id)
	}

	bad := Hit{Key: "x", Document: json.RawMessage(`{`)}
	if _, err := bad.OriginalID(); err == nil {
		t.Error("expected decode error")
	}
}

func TestFilterable_CoversIndexFields(t *testing.T) {
	docs := []Document{
		NewCatalog(&domain.Catalog{ID: 1, Name: "n", Href: "h", LifecycleStatus: "s",
			RelatedParty: []domain.RelatedParty{{ID: "p"}}}),
		NewProduct(&domain.Product{ID: 1, Name: "n", Href: "h", LifecycleStatus: "s", ProductNumber: "1",
			RelatedParty: []domain.RelatedParty{{ID: "p"}}}),
		&Offering{
			Common: newCommon(domain.FamilyOfferings, 1), Body: []string{"b"}, Name: "n", Href: "h",
			LifecycleStatus: "s", Catalog: "c", ProductSpecification: "p", UserID: "u",
			CategoriesID: []string{"1"}, CategoriesName: []string{"x"},
		},
		NewInventory(&domain.InventoryItem{ID: 1, Name: "n", Href: "h", Status: "s",
			ProductOffering: domain.OfferingRef{ID: 2},
			RelatedParty:    []domain.RelatedParty{{ID: "p"}}}, domain.OfferingDetail{Name: "n"}),
		NewOrder(&domain.Order{ID: 1, Href: "h", Priority: "p", Category: "c", State: "s",
			RelatedParty: []domain.RelatedParty{{ID: "a"}, {ID: "b", Role: domain.RoleSeller}}}),
	}

	for _, d := range docs {
		t.Run(string(d.Family()), func(t *testing.T) {
			known := make(map[string]bool)
			for _, f := range Filterable(d.Family()) {
				known[f] = true
			}
			for f := range d.IndexFields() {
				if !known[f] {
					t.Errorf("indexed field %q missing from Filterable", f)
				}
			}
		})
	}
}

package i18n

import (
	"encoding/json"
	"sync"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedBundlesAreComplete(t *testing.T) {
	require.NoError(t, Validate())

	for _, l := range Supported() {
		b, err := Load(l)
		require.NoError(t, err)
		assert.Equal(t, l, b.Locale())
		for _, k := range Keys() {
			assert.NotEmpty(t, b.Text(k), "%s: %s", l, k)
		}
	}
}

func TestBundleText(t *testing.T) {
	id := DefaultCatalog().MustBundle(ID)
	en := DefaultCatalog().MustBundle(EN)

	assert.Equal(t, "Pengaturan", id.Text(KeyNavSettings))
	assert.Equal(t, "Settings", en.Text(KeyNavSettings))
	assert.Equal(t, "Agustus", id.Month(8))
	assert.Equal(t, "August", en.Month(8))
}

func TestBundleSprintfLocalizesNumbers(t *testing.T) {
	en := DefaultCatalog().MustBundle(EN)
	assert.Equal(t, "1 categories over budget, 2 under budget, 3 on track.", en.Sprintf(KeyAllocationSummary, 1, 2, 3))

	id := DefaultCatalog().MustBundle(ID)
	assert.Equal(t, "1.500.000", id.Printer().Sprintf("%d", 1500000))
	assert.Equal(t, "1,500,000", en.Printer().Sprintf("%d", 1500000))
}

func completeBundle(t *testing.T, drop ...Key) []byte {
	t.Helper()
	flat := make(map[string]string)
	for _, k := range Keys() {
		flat[string(k)] = "x " + string(k)
	}
	for _, k := range drop {
		delete(flat, string(k))
	}
	data, err := json.Marshal(flat)
	require.NoError(t, err)
	return data
}

func TestCatalogAcceptsFlatKeys(t *testing.T) {
	c := NewCatalog(fstest.MapFS{
		"locales/id.json": {Data: completeBundle(t)},
		"locales/en.json": {Data: completeBundle(t)},
	})
	require.NoError(t, c.Validate())
}

func TestCatalogMissingBundle(t *testing.T) {
	c := NewCatalog(fstest.MapFS{
		"locales/id.json": {Data: completeBundle(t)},
	})
	_, err := c.Bundle(EN)
	assert.ErrorIs(t, err, ErrMissingBundle)
	assert.ErrorIs(t, c.Validate(), ErrMissingBundle)

	_, err = c.Bundle(ID)
	assert.NoError(t, err)
}

func TestCatalogMissingKey(t *testing.T) {
	c := NewCatalog(fstest.MapFS{
		"locales/id.json": {Data: completeBundle(t, KeyNavLanguage)},
		"locales/en.json": {Data: completeBundle(t)},
	})
	_, err := c.Bundle(ID)
	require.ErrorIs(t, err, ErrMissingKey)
	assert.Contains(t, err.Error(), string(KeyNavLanguage))
}

func TestCatalogUnknownKey(t *testing.T) {
	c := NewCatalog(fstest.MapFS{
		"locales/id.json": {Data: []byte(`{"nav": {"bogus": "x"}}`)},
	})
	_, err := c.Bundle(ID)
	assert.ErrorIs(t, err, ErrMissingKey)

	var flat map[string]string
	require.NoError(t, json.Unmarshal(completeBundle(t), &flat))
	flat["nav.bogus"] = "x"
	data, err := json.Marshal(flat)
	require.NoError(t, err)
	c = NewCatalog(fstest.MapFS{"locales/id.json": {Data: data}})
	_, err = c.Bundle(ID)
	assert.ErrorIs(t, err, ErrUnknownKey)
}

func TestCatalogRejectsNonStringLeaf(t *testing.T) {
	c := NewCatalog(fstest.MapFS{
		"locales/id.json": {Data: []byte(`{"nav": {"dashboard": 3}}`)},
	})
	_, err := c.Bundle(ID)
	assert.Error(t, err)
}

func TestCatalogUnsupportedLocale(t *testing.T) {
	_, err := DefaultCatalog().Bundle(Locale("fr"))
	assert.ErrorIs(t, err, ErrInvalidLocale)
}

func TestCatalogLoadsOnceConcurrently(t *testing.T) {
	c := NewCatalog(localesFS)
	var wg sync.WaitGroup
	got := make([]*Bundle, 16)
	for i := range got {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			got[i], _ = c.Bundle(EN)
		}(i)
	}
	wg.Wait()
	for _, b := range got {
		assert.Same(t, got[0], b)
	}
}

func TestMonthKeyPanicsOutOfRange(t *testing.T) {
	assert.Panics(t, func() { MonthKey(13) })
	assert.Equal(t, Key("month.01"), MonthKey(1))
}

func TestBucketKey(t *testing.T) {
	k, ok := BucketKey("needs")
	assert.True(t, ok)
	assert.Equal(t, KeyBucketNeeds, k)
	_, ok = BucketKey("travel")
	assert.False(t, ok)
}

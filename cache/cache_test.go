package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/use-agent/bingdict/dict"
)

func TestCache_SetGet(t *testing.T) {
	c := New(10, time.Hour)
	defer c.Stop()

	p := &dict.Paraphrase{Query: "dictionary", Genders: []string{"n. 词典"}}
	key := Key("zh-cn", "dictionary")
	c.Set(key, p)

	got, ok := c.Get(key)
	require.True(t, ok)
	assert.Same(t, p, got)

	_, ok = c.Get(Key("zh-cn", "other"))
	assert.False(t, ok)

	stats := c.Stats()
	assert.Equal(t, 1, stats.Entries)
	assert.EqualValues(t, 1, stats.Hits)
	assert.EqualValues(t, 1, stats.Misses)
}

func TestCache_NegativeEntry(t *testing.T) {
	c := New(10, time.Hour)
	defer c.Stop()

	key := Key("zh-cn", "yranoitcid")
	c.Set(key, nil)

	got, ok := c.Get(key)
	assert.True(t, ok)
	assert.Nil(t, got)
}

func TestCache_Expiry(t *testing.T) {
	c := New(10, 20*time.Millisecond)
	defer c.Stop()

	key := Key("zh-cn", "word")
	c.Set(key, &dict.Paraphrase{Query: "word"})
	time.Sleep(40 * time.Millisecond)

	_, ok := c.Get(key)
	assert.False(t, ok)

	c.evictExpired(time.Now())
	assert.Equal(t, 0, c.Stats().Entries)
}

func TestCache_Capacity(t *testing.T) {
	c := New(2, time.Hour)
	defer c.Stop()

	c.Set("a", nil)
	c.Set("b", nil)
	c.Set("b", nil)
	assert.Equal(t, 2, c.Stats().Entries)

	c.Set("c", nil)
	assert.Equal(t, 2, c.Stats().Entries)
	_, ok := c.Get("c")
	assert.True(t, ok)
}

func TestCache_Disabled(t *testing.T) {
	c := New(0, time.Hour)
	defer c.Stop()

	c.Set("a", nil)
	_, ok := c.Get("a")
	assert.False(t, ok)
}

func TestKey_Normalises(t *testing.T) {
	assert.Equal(t, Key("zh-cn", "word"), Key("ZH-CN", " word "))
	assert.NotEqual(t, Key("zh-cn", "word"), Key("en-us", "word"))
}

package gallery

import (
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextPage(t *testing.T) {
	base := "https://gallery.example/index.php?page=post&s=list&tags=cats"

	assert.Equal(t, base+"&pid=0", NextPage(base, 0))
	assert.Equal(t, base+"&pid=42", NextPage(base, 1))
	assert.Equal(t, base+"&pid=420", NextPage(base, 10))
}

func TestNextPageOffsetsIncrease(t *testing.T) {
	prev := -1
	for page := 0; page < 20; page++ {
		u := NextPage("x", page)
		off, err := strconv.Atoi(u[strings.LastIndex(u, "=")+1:])
		require.NoError(t, err)
		assert.Greater(t, off, prev)
		prev = off
	}
}

func TestNextPageDoesNotValidate(t *testing.T) {
	assert.Equal(t, "&pid=84", NextPage("", 2))
}

func TestSitePageURL(t *testing.T) {
	site, err := NewSite("https://gallery.example/list?tag=a", "", 20)
	require.NoError(t, err)
	assert.Equal(t, "https://gallery.example/list?tag=a&pid=60", site.PageURL(3))

	site, err = NewSite("https://gallery.example/list?tag=a", "", 0)
	require.NoError(t, err)
	assert.Equal(t, DefaultPageSize, site.PageSize)
}

func TestNewSiteRejectsRelativeBase(t *testing.T) {
	_, err := NewSite("/index.php?page=post", "", 42)
	assert.Error(t, err)
}

func TestResolveLink(t *testing.T) {
	site, err := NewSite("https://gallery.example/index.php?page=post&s=list", "", 42)
	require.NoError(t, err)
	assert.Equal(t, "https://gallery.example", site.Origin())

	tests := map[string]string{
		"/index.php?page=post&s=view&id=1": "https://gallery.example/index.php?page=post&s=view&id=1",
		"index.php?page=post&s=view&id=2":  "https://gallery.example/index.php?page=post&s=view&id=2",
		"https://mirror.example/post/3":    "https://mirror.example/post/3",
	}
	for href, want := range tests {
		got, err := site.ResolveLink(href)
		require.NoError(t, err)
		assert.Equal(t, want, got, href)
	}
}

func TestResolveLinkOriginOverride(t *testing.T) {
	site, err := NewSite("http://127.0.0.1:8080/list?x=1", "https://cdn.gallery.example", 42)
	require.NoError(t, err)

	got, err := site.ResolveLink("/post/1")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.gallery.example/post/1", got)
}

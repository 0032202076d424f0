package media_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"hotellink/internal/media"
)

func TestTypeOf_Images(t *testing.T) {
	for _, u := range []string{
		"https://cdn.example.com/a/b.jpg",
		"https://cdn.example.com/a/b.JPEG?w=100",
		"https://cdn.example.com/b.png",
		"https://cdn.example.com/b.webp#x",
		"/uploads/lobby.gif",
		"https://api.example.com/api/v1/media/42/view",
		"https://kuula.co/share/cover.jpg",
	} {
		assert.Equal(t, media.Image, media.TypeOf(u), u)
	}
}

func TestTypeOf_YouTube(t *testing.T) {
	for _, u := range []string{
		"https://www.youtube.com/watch?v=dQw4w9WgXcQ",
		"https://youtu.be/dQw4w9WgXcQ",
		"https://m.youtube.com/watch?v=dQw4w9WgXcQ",
		"https://www.youtube.com/embed/dQw4w9WgXcQ",
	} {
		assert.Equal(t, media.YouTube, media.TypeOf(u), u)
	}
}

func TestTypeOf_VR360(t *testing.T) {
	k, def := media.Detect("https://kuula.co/share/collection/7abc")
	assert.Equal(t, media.VR360, k)
	assert.False(t, def)

	k, def = media.Detect("https://my.matterport.com/show/?m=abc")
	assert.Equal(t, media.VR360, k)
	assert.False(t, def)

	k, def = media.Detect("https://tours.example.com/abc")
	assert.Equal(t, media.VR360, k)
	assert.True(t, def, "unknown hosts take the default branch")
}

func TestTypeOf_MalformedNeverPanics(t *testing.T) {
	assert.Equal(t, media.Unknown, media.TypeOf(""))
	assert.Equal(t, media.Unknown, media.TypeOf("   "))
	assert.Equal(t, media.VR360, media.TypeOf("%%%not a url"))
	assert.Equal(t, media.YouTube, media.TypeOf("youtube.com/watch?v=abcdefg"))
	assert.Equal(t, media.Image, media.TypeOf("::bad::/x.png"))
}

func TestYouTubeEmbedURL(t *testing.T) {
	want := "https://www.youtube.com/embed/dQw4w9WgXcQ?autoplay=1&mute=1&loop=1&playlist=dQw4w9WgXcQ"
	for _, u := range []string{
		"https://www.youtube.com/watch?v=dQw4w9WgXcQ",
		"https://www.youtube.com/watch?feature=share&v=dQw4w9WgXcQ",
		"https://youtu.be/dQw4w9WgXcQ",
		"https://youtu.be/dQw4w9WgXcQ?t=10",
		"https://www.youtube.com/shorts/dQw4w9WgXcQ",
		"youtu.be/dQw4w9WgXcQ",
		"www.youtube.com/watch?v=dQw4w9WgXcQ",
		"youtube.com/watch?v=dQw4w9WgXcQ&t=3",
		"  https://youtu.be/dQw4w9WgXcQ  ",
	} {
		got := media.YouTubeEmbedURL(u)
		assert.Equal(t, want, got, u)
		assert.True(t, strings.Contains(got, "/embed/dQw4w9WgXcQ"))
	}

	embed := "https://www.youtube.com/embed/dQw4w9WgXcQ"
	assert.Equal(t, embed, media.YouTubeEmbedURL(embed))
	assert.Equal(t, "not a url", media.YouTubeEmbedURL("not a url"))
	assert.Equal(t, "https://www.youtube.com/", media.YouTubeEmbedURL("https://www.youtube.com/"))
	assert.Equal(t, "/watch?v=abc", media.YouTubeEmbedURL("/watch?v=abc"))

	// short ids still embed
	assert.Equal(t,
		"https://www.youtube.com/embed/abc?autoplay=1&mute=1&loop=1&playlist=abc",
		media.YouTubeEmbedURL("https://youtu.be/abc"))
}

func TestResolve_SchemelessYouTubeEmbeds(t *testing.T) {
	for _, u := range []string{"youtu.be/dQw4w9WgXcQ", "www.youtube.com/watch?v=dQw4w9WgXcQ"} {
		b := media.Resolve(u)
		assert.Equal(t, media.YouTube, b.Kind, u)
		assert.Contains(t, b.EmbedURL, "/embed/dQw4w9WgXcQ", u)
		assert.Equal(t, u, b.Src)
	}
}

func TestResolve(t *testing.T) {
	b := media.Resolve("https://youtu.be/dQw4w9WgXcQ")
	assert.Equal(t, media.YouTube, b.Kind)
	assert.Contains(t, b.EmbedURL, "/embed/dQw4w9WgXcQ")

	b = media.Resolve("https://tours.example.com/abc")
	assert.Equal(t, media.VR360, b.Kind)
	assert.Equal(t, "https://tours.example.com/abc", b.EmbedURL)
	assert.True(t, b.Defaulted)

	b = media.Resolve("https://cdn.example.com/a.jpg")
	assert.Equal(t, media.Image, b.Kind)
	assert.Empty(t, b.EmbedURL)
}

package source

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func epicTestServer(t *testing.T, list []epicMetadata, photoSide int) (*httptest.Server, *[]string) {
	t.Helper()

	photo := image.NewRGBA(image.Rect(0, 0, photoSide, photoSide))
	for y := 0; y < photoSide; y++ {
		for x := 0; x < photoSide; x++ {
			photo.SetRGBA(x, y, color.RGBA{20, 40, 90, 255})
		}
	}
	var encoded bytes.Buffer
	if err := png.Encode(&encoded, photo); err != nil {
		t.Fatalf("unable to encode test photo: %v", err)
	}

	photoPaths := &[]string{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/list":
			json.NewEncoder(w).Encode(list)
		case strings.HasPrefix(r.URL.Path, "/archive/"):
			*photoPaths = append(*photoPaths, r.URL.Path)
			w.Header().Set("Content-Type", "image/png")
			w.Write(encoded.Bytes())
		default:
			http.NotFound(w, r)
		}
	}))
	return server, photoPaths
}

func TestEarthPhotoSourceFetch(t *testing.T) {
	list := []epicMetadata{{
		Image: "epic_1b_20260825000342",
		Date:  "2026-08-25 00:03:42",
	}}
	list[0].CentroidCoordinates.Lat = -5.2
	list[0].CentroidCoordinates.Lon = 112.8

	server, photoPaths := epicTestServer(t, list, 120)
	defer server.Close()

	source := NewEarthPhotoSource(server.URL+"/list", server.URL+"/archive", 12,
		43200*time.Second, 5*time.Second, 5*time.Second)
	snapshot, err := source.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}

	if len(*photoPaths) != 1 {
		t.Fatalf("expected one photo request, got %d", len(*photoPaths))
	}
	if want := "/archive/2026/08/25/png/epic_1b_20260825000342.png"; (*photoPaths)[0] != want {
		t.Errorf("unexpected photo path %q, want %q", (*photoPaths)[0], want)
	}

	if !snapshot.Ok {
		t.Errorf("expected Ok snapshot")
	}
	if snapshot.Date != "2026-08-25 00:03:42" {
		t.Errorf("unexpected date %q", snapshot.Date)
	}
	if snapshot.Lat != -5.2 || snapshot.Lon != 112.8 {
		t.Errorf("unexpected centroid %v/%v", snapshot.Lat, snapshot.Lon)
	}
	if snapshot.Index != 1 || snapshot.Total != 1 {
		t.Errorf("unexpected rotation position %d/%d", snapshot.Index, snapshot.Total)
	}
	if got := snapshot.Image.Bounds(); got.Dx() != photoSize || got.Dy() != photoSize {
		t.Errorf("expected photo scaled to %dx%d, got %v", photoSize, photoSize, got)
	}
}

func TestEarthPhotoSourceListCaching(t *testing.T) {
	list := []epicMetadata{{Image: "epic_1b_a", Date: "2026-08-25 00:03:42"}}

	listRequests := 0
	var photoBody bytes.Buffer
	png.Encode(&photoBody, image.NewRGBA(image.Rect(0, 0, photoSize, photoSize)))
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/list" {
			listRequests++
			json.NewEncoder(w).Encode(list)
			return
		}
		w.Write(photoBody.Bytes())
	}))
	defer server.Close()

	source := NewEarthPhotoSource(server.URL+"/list", server.URL+"/archive", 12,
		43200*time.Second, 5*time.Second, 5*time.Second)

	for i := 0; i < 3; i++ {
		if _, err := source.Fetch(context.Background()); err != nil {
			t.Fatalf("Fetch %d failed: %v", i, err)
		}
	}
	if listRequests != 1 {
		t.Fatalf("expected the photo list fetched once within its interval, got %d requests", listRequests)
	}
}

func TestEarthPhotoSourceMaxPhotos(t *testing.T) {
	var list []epicMetadata
	for i := 0; i < 20; i++ {
		list = append(list, epicMetadata{
			Image: fmt.Sprintf("epic_1b_%02d", i),
			Date:  "2026-08-25 00:03:42",
		})
	}

	server, _ := epicTestServer(t, list, photoSize)
	defer server.Close()

	source := NewEarthPhotoSource(server.URL+"/list", server.URL+"/archive", 12,
		43200*time.Second, 5*time.Second, 5*time.Second)
	snapshot, err := source.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if snapshot.Total != 12 {
		t.Fatalf("expected the list capped at 12 photos, got %d", snapshot.Total)
	}
}

func TestEarthPhotoSourceListFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	source := NewEarthPhotoSource(server.URL+"/list", server.URL+"/archive", 12,
		43200*time.Second, 5*time.Second, 5*time.Second)
	if _, err := source.Fetch(context.Background()); err == nil {
		t.Fatalf("expected an error when no photo list is available")
	}
}

func TestEarthPhotoSourceMalformedDate(t *testing.T) {
	s := &EarthPhotoSource{archiveUrl: "https://epic.gsfc.nasa.gov/archive/natural"}
	if _, err := s.photoUrl(epicMetadata{Image: "x", Date: "garbage"}); err == nil {
		t.Fatalf("expected an error for a malformed photo date")
	}

	url, err := s.photoUrl(epicMetadata{Image: "epic_1b_x", Date: "2026-08-25 00:03:42"})
	if err != nil {
		t.Fatalf("photoUrl failed: %v", err)
	}
	if want := "https://epic.gsfc.nasa.gov/archive/natural/2026/08/25/png/epic_1b_x.png"; url != want {
		t.Errorf("photoUrl = %q, want %q", url, want)
	}
}

package source

import (
	"context"
	"encoding/json"
	"fmt"
	"image"
	_ "image/png"
	"io/ioutil"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/image/draw"
)

const photoSize = 240

// EarthPhotoSnapshot is an immutable Earth photo with its capture metadata,
// replaced wholesale on each successful fetch. Image is already scaled to the
// main panel resolution.
type EarthPhotoSnapshot struct {
	Image image.Image
	Date  string
	Lat   float64
	Lon   float64
	Index int
	Total int

	Ok        bool
	FetchedAt time.Time
}

type epicMetadata struct {
	Image               string `json:"image"`
	Date                string `json:"date"`
	Caption             string `json:"caption"`
	CentroidCoordinates struct {
		Lat float64 `json:"lat"`
		Lon float64 `json:"lon"`
	} `json:"centroid_coordinates"`
}

// EarthPhotoSource serves NASA EPIC photos. It keeps the last fetched photo
// list and rotates through it one photo per hour slot; the list itself is
// only refreshed every listRefreshInterval. The cached list is touched only
// from Fetch, which the scheduler never runs concurrently.
type EarthPhotoSource struct {
	listClient  *http.Client
	photoClient *http.Client

	listUrl    string
	archiveUrl string
	maxPhotos  int

	listRefreshInterval time.Duration

	photoList       []epicMetadata
	lastListFetchAt time.Time
}

func NewEarthPhotoSource(listUrl, archiveUrl string, maxPhotos int, listRefreshInterval, listTimeout, photoTimeout time.Duration) *EarthPhotoSource {
	return &EarthPhotoSource{
		listClient:          &http.Client{Timeout: listTimeout},
		photoClient:         &http.Client{Timeout: photoTimeout},
		listUrl:             listUrl,
		archiveUrl:          archiveUrl,
		maxPhotos:           maxPhotos,
		listRefreshInterval: listRefreshInterval,
	}
}

func (s *EarthPhotoSource) Fetch(ctx context.Context) (*EarthPhotoSnapshot, error) {
	now := time.Now()

	if len(s.photoList) == 0 || now.Sub(s.lastListFetchAt) >= s.listRefreshInterval {
		if err := s.refreshList(ctx, now); err != nil {
			// A stale list is still usable for rotation.
			if len(s.photoList) == 0 {
				return nil, err
			}
			logrus.Warnf("Keeping stale Earth photo list: %v", err)
		}
	}

	hourSlot := int(now.Unix()/3600) % len(s.photoList)
	meta := s.photoList[hourSlot]

	img, err := s.fetchPhoto(ctx, meta)
	if err != nil {
		return nil, err
	}

	return &EarthPhotoSnapshot{
		Image:     img,
		Date:      meta.Date,
		Lat:       meta.CentroidCoordinates.Lat,
		Lon:       meta.CentroidCoordinates.Lon,
		Index:     hourSlot + 1,
		Total:     len(s.photoList),
		Ok:        true,
		FetchedAt: now,
	}, nil
}

func (s *EarthPhotoSource) refreshList(ctx context.Context, now time.Time) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.listUrl, nil)
	if err != nil {
		return &FetchError{SourceId: EARTH_PHOTO_SOURCE, Op: "list", Err: err}
	}

	resp, err := s.listClient.Do(req)
	if err != nil {
		return &FetchError{SourceId: EARTH_PHOTO_SOURCE, Op: "list", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &FetchError{SourceId: EARTH_PHOTO_SOURCE, Op: "list", Err: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}

	rawBody, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		return &FetchError{SourceId: EARTH_PHOTO_SOURCE, Op: "list", Err: err}
	}

	var list []epicMetadata
	if err = json.Unmarshal(rawBody, &list); err != nil {
		return &FetchError{SourceId: EARTH_PHOTO_SOURCE, Op: "list", Err: err}
	}
	if len(list) == 0 {
		return &FetchError{SourceId: EARTH_PHOTO_SOURCE, Op: "list", Err: fmt.Errorf("empty photo list")}
	}

	if len(list) > s.maxPhotos {
		list = list[:s.maxPhotos]
	}
	s.photoList = list
	s.lastListFetchAt = now

	logrus.Debugf("Earth photo list refreshed: %d photos", len(list))

	return nil
}

func (s *EarthPhotoSource) fetchPhoto(ctx context.Context, meta epicMetadata) (image.Image, error) {
	photoUrl, err := s.photoUrl(meta)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, photoUrl, nil)
	if err != nil {
		return nil, &FetchError{SourceId: EARTH_PHOTO_SOURCE, Op: "photo", Err: err}
	}

	resp, err := s.photoClient.Do(req)
	if err != nil {
		return nil, &FetchError{SourceId: EARTH_PHOTO_SOURCE, Op: "photo", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &FetchError{SourceId: EARTH_PHOTO_SOURCE, Op: "photo", Err: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}

	img, _, err := image.Decode(resp.Body)
	if err != nil {
		return nil, &FetchError{SourceId: EARTH_PHOTO_SOURCE, Op: "decode", Err: err}
	}

	return scalePhoto(img), nil
}

// photoUrl builds the archive url for a photo whose metadata date looks like
// "2021-06-20 00:03:42":
// <archiveUrl>/2021/06/20/png/<name>.png
func (s *EarthPhotoSource) photoUrl(meta epicMetadata) (string, error) {
	datePart := strings.SplitN(meta.Date, " ", 2)[0]
	dateFields := strings.Split(datePart, "-")
	if len(dateFields) != 3 {
		return "", &FetchError{SourceId: EARTH_PHOTO_SOURCE, Op: "photo", Err: fmt.Errorf("malformed photo date %q", meta.Date)}
	}
	return fmt.Sprintf("%s/%s/%s/%s/png/%s.png", s.archiveUrl, dateFields[0], dateFields[1], dateFields[2], meta.Image), nil
}

func scalePhoto(img image.Image) image.Image {
	bounds := img.Bounds()
	if bounds.Dx() == photoSize && bounds.Dy() == photoSize {
		return img
	}
	scaled := image.NewRGBA(image.Rect(0, 0, photoSize, photoSize))
	draw.CatmullRom.Scale(scaled, scaled.Bounds(), img, bounds, draw.Src, nil)
	return scaled
}

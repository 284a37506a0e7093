package srv

import (
	"image"
	"os"
	"time"

	"github.com/dannybellieveit/skyhat/internal/srv/config"
	"github.com/dannybellieveit/skyhat/internal/srv/device"
	"github.com/dannybellieveit/skyhat/internal/srv/source"
	"github.com/dannybellieveit/skyhat/internal/version"
	"github.com/sirupsen/logrus"
)

// displayWriter is the slice of the display device the loop drives.
type displayWriter interface {
	Start()
	Show(main, left, right image.Image) error
	SetBrightness(mainDuty, sideDuty int64)
	Stop()
}

// ServerApp owns every piece of mutable display state. The event loop is its
// single thread of control; background fetch tasks and devices only talk to
// it through channels.
type ServerApp struct {
	*config.ServerConfig

	displayDevice displayWriter
	buttonsDevice *device.Buttons
	clockDevice   *device.Clock
	apiDevice     *device.Api

	weatherSource    *source.WeatherSource
	earthPhotoSource *source.EarthPhotoSource

	fetchScheduler *FetchScheduler
	frameCache     *FrameCache
	pageSelector   *PageSelector
	powerState     *PowerState

	currentMode   Mode
	snapshotDirty bool

	eventLoopAskDone chan bool
	eventLoopDone    chan bool
}

type Mode int64

const (
	UNDEFINED_MODE Mode = iota
	STARTUP_MODE
	RUN_MODE
	END_MODE
)

func NewServerApp(configDir string, debugMode bool, simulationMode bool) *ServerApp {

	logrus.Debugf("Creation of skyhat server %s ...", version.AppVersion.String())

	app := &ServerApp{
		currentMode:      UNDEFINED_MODE,
		snapshotDirty:    true,
		eventLoopAskDone: make(chan bool),
		eventLoopDone:    make(chan bool),
		ServerConfig:     config.NewServerConfig(configDir, debugMode, simulationMode),
	}

	now := time.Now()
	param := app.ServerParam

	app.weatherSource = source.NewWeatherSource(
		param.Weather.Url,
		param.Location.Latitude,
		param.Location.Longitude,
		param.Location.Timezone,
		seconds(param.Weather.FetchTimeoutSeconds))
	app.earthPhotoSource = source.NewEarthPhotoSource(
		param.EarthPhoto.ListUrl,
		param.EarthPhoto.ArchiveUrl,
		param.EarthPhoto.MaxPhotos,
		seconds(param.EarthPhoto.ListRefreshIntervalSeconds),
		seconds(param.EarthPhoto.ListTimeoutSeconds),
		seconds(param.EarthPhoto.PhotoTimeoutSeconds))

	app.fetchScheduler = NewFetchScheduler(
		app.weatherSource.Fetch,
		app.earthPhotoSource.Fetch,
		seconds(param.Weather.RefreshIntervalSeconds),
		seconds(param.EarthPhoto.RefreshIntervalSeconds),
		seconds(param.EarthPhoto.RetryDelaySeconds))
	app.frameCache = NewFrameCache(param.Location.City)
	app.pageSelector = NewPageSelector(seconds(param.Loop.LayoutSwapIntervalSeconds), now)
	app.powerState = NewPowerState(
		param.Panels.MainDuty,
		param.Panels.SideDuty,
		param.Panels.DimPercent,
		seconds(param.Panels.DimTimeoutSeconds),
		now)

	app.displayDevice = device.NewDisplay(app.ServerConfig)
	app.buttonsDevice = device.NewButtons(app.ServerConfig)
	app.clockDevice = device.NewClock(seconds(param.Loop.TickPeriodSeconds))
	app.apiDevice = device.NewApi(app.ServerConfig)

	logrus.Debugln("Server created")

	return app
}

func (s *ServerApp) Start() {
	logrus.Printf("Starting skyhat server ...")

	logrus.Printf("Starting devices ...")

	// Start display device
	s.displayDevice.Start()

	// Display startup screen
	s.currentMode = STARTUP_MODE
	s.refreshDisplay()
	time.Sleep(2 * time.Second)

	// First tick launches the initial fetches and paints the placeholders
	s.currentMode = RUN_MODE
	s.handleTick(time.Now())

	// Start event loop
	go s.eventLoop()

	// Start ticker device
	s.clockDevice.Start()

	// Start buttons device
	s.buttonsDevice.Start()

	// Start api device
	if s.ServerParam.ApiParam.Enabled {
		s.apiDevice.Start()
	}
}

func (s *ServerApp) Stop() {
	logrus.Printf("Stopping skyhat server ...")

	// Stop api
	if s.ServerParam.ApiParam.Enabled {
		s.apiDevice.StopSendingEvent()
	}

	// Stop buttons device
	s.buttonsDevice.StopSendingEvent()

	// Stop ticker device
	s.clockDevice.StopSendingEvent()

	// Stop event loop
	logrus.Infof("Stop event loop")
	s.eventLoopAskDone <- true
	<-s.eventLoopDone

	// Display end mode image
	s.currentMode = END_MODE
	s.refreshDisplay()
	time.Sleep(time.Second)

	// Stop display device: every panel is cleared and shut down
	s.displayDevice.Stop()

	logrus.Printf("Server stopped")

	os.Exit(0)
}

func seconds(n int64) time.Duration {
	return time.Duration(n) * time.Second
}

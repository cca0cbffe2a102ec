package platform

import "time"

var (
	appVersion   = "0.0.0"
	appBuildTime = "1970-01-01"
	appStartTime = time.Now()
)

func SetAppManifest(version, buildTime string) {
	appVersion = version
	appBuildTime = buildTime
}

func AppVersion() string {
	return appVersion
}

func AppBuildTime() string {
	return appBuildTime
}

func AppUptime() time.Duration {
	return time.Since(appStartTime)
}

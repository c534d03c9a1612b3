package version

import "runtime/debug"

// You can set the version at build time using something like:
// go build -ldflags "-X github.com/vsariola/xml2ly/version.Version=$(git describe --dirty)"

var Version string

var buildInfo, hasBuildInfo = debug.ReadBuildInfo()

// Module is the version of the main module as recorded by go install, e.g.
// "v0.3.1". It is empty for builds from a working copy.
var Module = func() string {
	if !hasBuildInfo || buildInfo.Main.Version == "(devel)" {
		return ""
	}
	return buildInfo.Main.Version
}()

var Hash = func() string {
	if !hasBuildInfo {
		return ""
	}
	revision, modified := "", false
	for _, setting := range buildInfo.Settings {
		switch setting.Key {
		case "vcs.revision":
			revision = setting.Value
		case "vcs.modified":
			modified = setting.Value == "true"
		}
	}
	if len(revision) > 7 {
		revision = revision[:7]
	}
	if revision != "" && modified {
		return revision + "-dirty"
	}
	return revision
}()

var VersionOrHash = func() string {
	switch {
	case Version != "":
		return Version
	case Module != "":
		return Module
	}
	return Hash
}()

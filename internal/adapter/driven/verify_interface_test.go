package driven

import (
	port "github.com/alorle/iptv-curator/internal/port/driven"
)

// Compile-time checks that the adapters implement their ports.
var (
	_ port.StreamInspector   = (*FFprobeInspector)(nil)
	_ port.ThroughputSampler = (*HTTPThroughputSampler)(nil)
	_ port.PlaylistSource    = (*PlaylistFileSource)(nil)
	_ port.PlaylistSource    = (*PlaylistHTTPFetcher)(nil)
	_ port.PlaylistWriter    = (*PlaylistFileWriter)(nil)
	_ port.PlaylistRenderer  = PlaylistFormat{}
	_ port.RunRepository     = (*RunBoltDBRepository)(nil)
	_ PlaylistCache          = (*PlaylistFileCache)(nil)
)

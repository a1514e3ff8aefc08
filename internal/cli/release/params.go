package release

import "relbot/internal/cli/paramutils"

type releaseCmdParams struct {
	Debug    bool
	Yes      bool
	Snapshot bool
}

func fillParams(flags paramutils.FlagRepo, params *releaseCmdParams) {
	params.Debug = flags.GetBoolOrDefault("debug", false)
	params.Yes = flags.GetBoolOrDefault("yes", false)
	params.Snapshot = flags.GetBoolOrDefault("snapshot", false)
}

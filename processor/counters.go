package processor

import (
	"github.com/xaionaro-go/threadcodec/processor/types"
)

type Counters = types.Counters
type Statistics = types.Statistics

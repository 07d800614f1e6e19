package engines

import (
	"github.com/bububa/pdf-agent/components/vectordb/engines/chromem"
)

var FromChromem = chromem.New

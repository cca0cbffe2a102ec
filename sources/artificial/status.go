package artificial

// EngineStatus reports readiness per capability without naming vendors.
type EngineStatus struct {
	TextEngine   string `json:"textEngine"`
	SearchEngine string `json:"searchEngine"`
	ImageEngine  string `json:"imageEngine"`
	AudioEngine  string `json:"audioEngine"`
}

type StatusService struct {
	selector *Selector
	enricher *Enricher
	painter  *Painter
	speaker  *Speaker
	whisper  *Whisper
}

func NewStatusService(selector *Selector, enricher *Enricher, painter *Painter, speaker *Speaker, whisper *Whisper) *StatusService {
	return &StatusService{selector: selector, enricher: enricher, painter: painter, speaker: speaker, whisper: whisper}
}

func (x *StatusService) Status() EngineStatus {
	status := EngineStatus{
		TextEngine:   EngineNotConfigured,
		SearchEngine: EngineNotConfigured,
		ImageEngine:  EngineNotConfigured,
		AudioEngine:  EngineNotConfigured,
	}

	if len(x.selector.Available()) > 0 {
		status.TextEngine = EngineReady
	}
	if x.enricher.Configured() {
		status.SearchEngine = EngineReady
	}
	if x.painter.Configured() {
		status.ImageEngine = EngineReady
	}
	if x.speaker.Configured() || x.whisper.Configured() {
		status.AudioEngine = EngineReady
	}

	return status
}

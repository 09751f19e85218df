package structs

type MetricConst int

const (
	MetricSignalParsed MetricConst = iota
	MetricSignalVetoed
	MetricModificationParsed
	MetricCommandQueued
	MetricSignalQueued
	MetricLimitHit
	MetricAckReceived
)

func (m MetricConst) ToString() string {
	switch m {
	case MetricSignalParsed:
		return "signal_parsed_total"
	case MetricSignalVetoed:
		return "signal_vetoed_total"
	case MetricModificationParsed:
		return "modification_parsed_total"
	case MetricCommandQueued:
		return "command_queued_total"
	case MetricSignalQueued:
		return "signal_queued_total"
	case MetricLimitHit:
		return "risk_limit_hit_total"
	case MetricAckReceived:
		return "ack_received_total"
	}
	return "unknown"
}

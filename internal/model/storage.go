package model

// NearLimitPercent is the usage percentage at which StorageInfo.NearLimit is set.
const NearLimitPercent = 90.0

// StorageInfo is a live view of a user's storage usage. It is derived on every request and never persisted.
type StorageInfo struct {
	UsedSpace    int64   `json:"used_space"`
	TotalQuota   int64   `json:"total_quota"`
	Remaining    int64   `json:"remaining_space"`
	UsagePercent float64 `json:"usage_percent"`
	NearLimit    bool    `json:"near_limit"`
	UsedHuman    string  `json:"used_human"`
	QuotaHuman   string  `json:"quota_human"`
}

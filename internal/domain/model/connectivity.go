package model

// ConnectivityStatus represents the device network reachability state
type ConnectivityStatus string

const (
	ConnectivityOnline  ConnectivityStatus = "online"
	ConnectivityOffline ConnectivityStatus = "offline"
	ConnectivityUnknown ConnectivityStatus = "unknown"
)

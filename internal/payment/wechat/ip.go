package wechat

import "net"

const fallbackIP = "0.0.0.0"

// LocalIPv4 返回首个非回环网卡的 IPv4 地址，用于 spbill_create_ip；
// 取不到时退回 "0.0.0.0"。
func LocalIPv4() string {
	interfaces, err := net.Interfaces()
	if err != nil {
		return fallbackIP
	}
	for _, iface := range interfaces {
		addrs, err := iface.Addrs()
		if err != nil {
			continue
		}
		for _, addr := range addrs {
			ipNet, ok := addr.(*net.IPNet)
			if !ok || ipNet.IP.IsLoopback() {
				continue
			}
			if ipv4 := ipNet.IP.To4(); ipv4 != nil {
				return ipv4.String()
			}
		}
	}
	return fallbackIP
}

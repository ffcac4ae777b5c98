package influxdb

import (
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

// RecordDeviceStatus writes one online/offline observation for a device.
//
// The write is non-blocking; points are batched and sent asynchronously.
// The numeric value field (1/0) exists so dashboards can graph uptime
// without boolean-to-number gymnastics in the query.
//
// RecordDeviceStatus implements the intake.StatusRecorder interface.
func (c *Client) RecordDeviceStatus(serial string, online bool) {
	if !c.IsConnected() {
		return
	}

	value := 0.0
	if online {
		value = 1.0
	}

	point := write.NewPoint(
		"device_status",
		map[string]string{
			"serial": serial,
		},
		map[string]interface{}{
			"online": online,
			"value":  value,
		},
		time.Now(),
	)

	c.writeAPI.WritePoint(point)
}

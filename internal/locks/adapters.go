package locks

import (
	"context"
	"time"
)

// TTLock issues 6-digit keyboard passwords the way the TTLock cloud API
// shapes them.
type TTLock struct{}

func (TTLock) Kind() Kind { return KindTTLock }

func (TTLock) Generate(ctx context.Context, req Request) (Issued, error) {
	code, err := numericPIN(6)
	if err != nil {
		return Issued{}, err
	}
	return Issued{
		Code: code,
		ProviderResponse: map[string]any{
			"provider":     "ttlock",
			"lockId":       req.DeviceID,
			"keyboardPwd":  code,
			"startDate":    req.ValidFrom.UnixMilli(),
			"endDate":      req.ValidUntil.UnixMilli(),
			"keyboardName": req.GuestName,
			"errcode":      0,
		},
	}, nil
}

func (TTLock) Revoke(ctx context.Context, deviceID, code string) error { return nil }

func (TTLock) Status(ctx context.Context, deviceID string) (DeviceStatus, error) {
	return DeviceStatus{DeviceID: deviceID, Online: true, Battery: 90}, nil
}

// Nuki issues 6-digit keypad codes. August locks are served by this adapter
// as well, via the registry alias.
type Nuki struct{}

func (Nuki) Kind() Kind { return KindNuki }

func (Nuki) Generate(ctx context.Context, req Request) (Issued, error) {
	code, err := numericPIN(6)
	if err != nil {
		return Issued{}, err
	}
	return Issued{
		Code: code,
		ProviderResponse: map[string]any{
			"provider":        "nuki",
			"smartlockId":     req.DeviceID,
			"code":            code,
			"name":            req.GuestName,
			"allowedFromDate": req.ValidFrom.Format(time.RFC3339),
			"allowedToDate":   req.ValidUntil.Format(time.RFC3339),
			"enabled":         true,
		},
	}, nil
}

func (Nuki) Revoke(ctx context.Context, deviceID, code string) error { return nil }

func (Nuki) Status(ctx context.Context, deviceID string) (DeviceStatus, error) {
	return DeviceStatus{DeviceID: deviceID, Online: true, Battery: 85}, nil
}

// ESP32 keypads only take 4-digit PINs.
type ESP32 struct{}

func (ESP32) Kind() Kind { return KindESP32 }

func (ESP32) Generate(ctx context.Context, req Request) (Issued, error) {
	code, err := numericPIN(4)
	if err != nil {
		return Issued{}, err
	}
	return Issued{
		Code: code,
		ProviderResponse: map[string]any{
			"provider":  "esp32",
			"device_id": req.DeviceID,
			"pin":       code,
			"from":      req.ValidFrom.Unix(),
			"to":        req.ValidUntil.Unix(),
			"ok":        true,
		},
	}, nil
}

func (ESP32) Revoke(ctx context.Context, deviceID, code string) error { return nil }

func (ESP32) Status(ctx context.Context, deviceID string) (DeviceStatus, error) {
	return DeviceStatus{DeviceID: deviceID, Online: true, Battery: 100}, nil
}

// Generic is the fallback for hotels without a vendor integration: the PIN
// is handed to staff to program manually.
type Generic struct{}

func (Generic) Kind() Kind { return KindGeneric }

func (Generic) Generate(ctx context.Context, req Request) (Issued, error) {
	code, err := numericPIN(6)
	if err != nil {
		return Issued{}, err
	}
	return Issued{
		Code: code,
		ProviderResponse: map[string]any{
			"provider": "generic",
			"pin":      code,
			"manual":   true,
		},
	}, nil
}

func (Generic) Revoke(ctx context.Context, deviceID, code string) error { return nil }

func (Generic) Status(ctx context.Context, deviceID string) (DeviceStatus, error) {
	return DeviceStatus{DeviceID: deviceID, Online: false, Battery: 0}, nil
}

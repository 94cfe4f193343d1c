package power

import (
	"encoding/binary"
	"fmt"

	"github.com/eliteGoblin/lidlock/internal/domain"
)

// Layout of POWERBROADCAST_SETTING: 16-byte GUID, u32 DataLength, Data.
const (
	settingGUIDSize   = 16
	SettingHeaderSize = settingGUIDSize + 4
	stateSize         = 4
)

// DecodePowerSetting decodes a POWERBROADCAST_SETTING structure.
// The first four data bytes are the little-endian state value.
func DecodePowerSetting(payload []byte) (domain.PowerEvent, error) {
	if len(payload) < SettingHeaderSize {
		return domain.PowerEvent{}, fmt.Errorf("power setting too short: %d bytes", len(payload))
	}

	dataLen := binary.LittleEndian.Uint32(payload[settingGUIDSize:SettingHeaderSize])
	if dataLen < stateSize {
		return domain.PowerEvent{}, fmt.Errorf("power setting data length %d, need %d", dataLen, stateSize)
	}
	if len(payload) < SettingHeaderSize+stateSize {
		return domain.PowerEvent{}, fmt.Errorf("power setting truncated: %d bytes", len(payload))
	}

	return domain.PowerEvent{
		Class: decodeGUID(payload[:settingGUIDSize]),
		State: binary.LittleEndian.Uint32(payload[SettingHeaderSize : SettingHeaderSize+stateSize]),
	}, nil
}

// EncodePowerSetting builds the structure DecodePowerSetting reads.
// Used by tests and fixtures.
func EncodePowerSetting(class domain.GUID, state uint32) []byte {
	buf := make([]byte, SettingHeaderSize+stateSize)
	binary.LittleEndian.PutUint32(buf[0:4], class.Data1)
	binary.LittleEndian.PutUint16(buf[4:6], class.Data2)
	binary.LittleEndian.PutUint16(buf[6:8], class.Data3)
	copy(buf[8:16], class.Data4[:])
	binary.LittleEndian.PutUint32(buf[16:20], stateSize)
	binary.LittleEndian.PutUint32(buf[20:24], state)
	return buf
}

func decodeGUID(b []byte) domain.GUID {
	var g domain.GUID
	g.Data1 = binary.LittleEndian.Uint32(b[0:4])
	g.Data2 = binary.LittleEndian.Uint16(b[4:6])
	g.Data3 = binary.LittleEndian.Uint16(b[6:8])
	copy(g.Data4[:], b[8:16])
	return g
}

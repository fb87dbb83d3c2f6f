package cec

import "fmt"

// AbortReason is the reason operand of an OpFeatureAbort message.
type AbortReason uint8

const (
	AbortUnrecognized AbortReason = 0 // unrecognized opcode
	AbortWrongMode    AbortReason = 1 // not in correct mode to respond
	AbortNoSource     AbortReason = 2 // cannot provide source
	AbortInvalidOp    AbortReason = 3 // invalid operand
	AbortRefused      AbortReason = 4
	AbortOther        AbortReason = 5
)

func (r AbortReason) String() string {
	switch r {
	case AbortUnrecognized:
		return "unrecognized opcode"
	case AbortWrongMode:
		return "wrong mode"
	case AbortNoSource:
		return "no source"
	case AbortInvalidOp:
		return "invalid operand"
	case AbortRefused:
		return "refused"
	case AbortOther:
		return "other"
	default:
		return fmt.Sprintf("reason(0x%02x)", uint8(r))
	}
}

// PowerStatus is the operand of OpReportPowerStatus.
type PowerStatus uint8

const (
	PowerOn                  PowerStatus = 0
	PowerStandby             PowerStatus = 1
	PowerTransitionStandbyOn PowerStatus = 2
	PowerTransitionOnStandby PowerStatus = 3
)

func (p PowerStatus) String() string {
	switch p {
	case PowerOn:
		return "on"
	case PowerStandby:
		return "standby"
	case PowerTransitionStandbyOn:
		return "standby->on"
	case PowerTransitionOnStandby:
		return "on->standby"
	default:
		return fmt.Sprintf("power(0x%02x)", uint8(p))
	}
}

// Version is the CEC protocol version operand, used in OpCecVersion and
// as the target version of a logical address request.
type Version uint8

const (
	Version1_3A Version = 4
	Version1_4  Version = 5
	Version2_0  Version = 6
)

func (v Version) String() string {
	switch v {
	case Version1_3A:
		return "1.3a"
	case Version1_4:
		return "1.4"
	case Version2_0:
		return "2.0"
	default:
		return fmt.Sprintf("version(0x%02x)", uint8(v))
	}
}

// PrimDevType is the primary device type operand, reported in
// OpReportPhysicalAddr.
type PrimDevType uint8

const (
	PrimDevTV          PrimDevType = 0
	PrimDevRecord      PrimDevType = 1
	PrimDevTuner       PrimDevType = 3
	PrimDevPlayback    PrimDevType = 4
	PrimDevAudiosystem PrimDevType = 5
	PrimDevSwitch      PrimDevType = 6
	PrimDevProcessor   PrimDevType = 7
)

// LogAddrType is the kind of logical address an adapter wants to claim.
type LogAddrType uint8

const (
	LogAddrTypeTV           LogAddrType = 0
	LogAddrTypeRecord       LogAddrType = 1
	LogAddrTypeTuner        LogAddrType = 2
	LogAddrTypePlayback     LogAddrType = 3
	LogAddrTypeAudiosystem  LogAddrType = 4
	LogAddrTypeSpecific     LogAddrType = 5
	LogAddrTypeUnregistered LogAddrType = 6
)

// VendorIDNone marks the absence of a vendor ID in a logical address
// request.
const VendorIDNone uint32 = 0xffffffff

// UserControlCode is the button operand of OpUserControlPressed.
type UserControlCode uint8

const (
	KeySelect                  UserControlCode = 0x00
	KeyUp                      UserControlCode = 0x01
	KeyDown                    UserControlCode = 0x02
	KeyLeft                    UserControlCode = 0x03
	KeyRight                   UserControlCode = 0x04
	KeyRightUp                 UserControlCode = 0x05
	KeyRightDown               UserControlCode = 0x06
	KeyLeftUp                  UserControlCode = 0x07
	KeyLeftDown                UserControlCode = 0x08
	KeyRootMenu                UserControlCode = 0x09
	KeySetupMenu               UserControlCode = 0x0a
	KeyContentsMenu            UserControlCode = 0x0b
	KeyFavoriteMenu            UserControlCode = 0x0c
	KeyExit                    UserControlCode = 0x0d
	KeyTopMenu                 UserControlCode = 0x10
	KeyDvdMenu                 UserControlCode = 0x11
	KeyNumberEntryMode         UserControlCode = 0x1d
	KeyNumber11                UserControlCode = 0x1e
	KeyNumber12                UserControlCode = 0x1f
	KeyNumber0                 UserControlCode = 0x20
	KeyNumber1                 UserControlCode = 0x21
	KeyNumber2                 UserControlCode = 0x22
	KeyNumber3                 UserControlCode = 0x23
	KeyNumber4                 UserControlCode = 0x24
	KeyNumber5                 UserControlCode = 0x25
	KeyNumber6                 UserControlCode = 0x26
	KeyNumber7                 UserControlCode = 0x27
	KeyNumber8                 UserControlCode = 0x28
	KeyNumber9                 UserControlCode = 0x29
	KeyDot                     UserControlCode = 0x2a
	KeyEnter                   UserControlCode = 0x2b
	KeyClear                   UserControlCode = 0x2c
	KeyNextFavorite            UserControlCode = 0x2f
	KeyChannelUp               UserControlCode = 0x30
	KeyChannelDown             UserControlCode = 0x31
	KeyPreviousChannel         UserControlCode = 0x32
	KeySoundSelect             UserControlCode = 0x33
	KeyInputSelect             UserControlCode = 0x34
	KeyDisplayInformation      UserControlCode = 0x35
	KeyHelp                    UserControlCode = 0x36
	KeyPageUp                  UserControlCode = 0x37
	KeyPageDown                UserControlCode = 0x38
	KeyPower                   UserControlCode = 0x40
	KeyVolumeUp                UserControlCode = 0x41
	KeyVolumeDown              UserControlCode = 0x42
	KeyMute                    UserControlCode = 0x43
	KeyPlay                    UserControlCode = 0x44
	KeyStop                    UserControlCode = 0x45
	KeyPause                   UserControlCode = 0x46
	KeyRecord                  UserControlCode = 0x47
	KeyRewind                  UserControlCode = 0x48
	KeyFastForward             UserControlCode = 0x49
	KeyEject                   UserControlCode = 0x4a
	KeyForward                 UserControlCode = 0x4b
	KeyBackward                UserControlCode = 0x4c
	KeyStopRecord              UserControlCode = 0x4d
	KeyPauseRecord             UserControlCode = 0x4e
	KeyAngle                   UserControlCode = 0x50
	KeySubPicture              UserControlCode = 0x51
	KeyVideoOnDemand           UserControlCode = 0x52
	KeyElectronicProgramGuide  UserControlCode = 0x53
	KeyTimerProgramming        UserControlCode = 0x54
	KeyInitialConfiguration    UserControlCode = 0x55
	KeySelectBroadcastType     UserControlCode = 0x56
	KeySelectSoundPresentation UserControlCode = 0x57
	KeyPlayFunction            UserControlCode = 0x60
	KeyPausePlayFunction       UserControlCode = 0x61
	KeyRecordFunction          UserControlCode = 0x62
	KeyPauseRecordFunction     UserControlCode = 0x63
	KeyStopFunction            UserControlCode = 0x64
	KeyMuteFunction            UserControlCode = 0x65
	KeyRestoreVolumeFunction   UserControlCode = 0x66
	KeyTuneFunction            UserControlCode = 0x67
	KeySelectMediaFunction     UserControlCode = 0x68
	KeySelectAvInputFunction   UserControlCode = 0x69
	KeySelectAudioInput        UserControlCode = 0x6a
	KeyPowerToggleFunction     UserControlCode = 0x6b
	KeyPowerOffFunction        UserControlCode = 0x6c
	KeyPowerOnFunction         UserControlCode = 0x6d
	KeyF1Blue                  UserControlCode = 0x71
	KeyF2Red                   UserControlCode = 0x72
	KeyF3Green                 UserControlCode = 0x73
	KeyF4Yellow                UserControlCode = 0x74
	KeyF5                      UserControlCode = 0x75
	KeyData                    UserControlCode = 0x76
)

// DeckControlMode is the operand of OpDeckControl.
type DeckControlMode uint8

const (
	DeckControlSkip   DeckControlMode = 1
	DeckControlRewind DeckControlMode = 2
	DeckControlStop   DeckControlMode = 3
	DeckControlEject  DeckControlMode = 4
)

// DeckInfo is the operand of OpDeckStatus.
type DeckInfo uint8

const (
	DeckPlay           DeckInfo = 0x11
	DeckRecord         DeckInfo = 0x12
	DeckPlayRev        DeckInfo = 0x13
	DeckStill          DeckInfo = 0x14
	DeckSlow           DeckInfo = 0x15
	DeckSlowRev        DeckInfo = 0x16
	DeckFastFwd        DeckInfo = 0x17
	DeckFastRev        DeckInfo = 0x18
	DeckNoMedia        DeckInfo = 0x19
	DeckStop           DeckInfo = 0x1a
	DeckSkipFwd        DeckInfo = 0x1b
	DeckSkipRev        DeckInfo = 0x1c
	DeckIndexSearchFwd DeckInfo = 0x1d
	DeckIndexSearchRev DeckInfo = 0x1e
	DeckOther          DeckInfo = 0x1f
)

// DisplayControl is the display timing operand of OpSetOsdString.
type DisplayControl uint8

const (
	DisplayDefault      DisplayControl = 0x00
	DisplayUntilCleared DisplayControl = 0x40
	DisplayClear        DisplayControl = 0x80
)

// MenuRequestType is the operand of OpMenuRequest.
type MenuRequestType uint8

const (
	MenuActivate   MenuRequestType = 0x00
	MenuDeactivate MenuRequestType = 0x01
	MenuQuery      MenuRequestType = 0x02
)

// PlayMode is the operand of OpPlay.
type PlayMode uint8

const (
	PlayFwd        PlayMode = 0x24
	PlayRev        PlayMode = 0x20
	PlayStill      PlayMode = 0x25
	PlayFastFwdMin PlayMode = 0x05
	PlayFastFwdMed PlayMode = 0x06
	PlayFastFwdMax PlayMode = 0x07
	PlayFastRevMin PlayMode = 0x09
	PlayFastRevMed PlayMode = 0x0a
	PlayFastRevMax PlayMode = 0x0b
	PlaySlowFwdMin PlayMode = 0x15
	PlaySlowFwdMed PlayMode = 0x16
	PlaySlowFwdMax PlayMode = 0x17
	PlaySlowRevMin PlayMode = 0x19
	PlaySlowRevMed PlayMode = 0x1a
	PlaySlowRevMax PlayMode = 0x1b
)

// StatusRequest is the operand of OpGiveDeckStatus and
// OpGiveTunerDeviceStatus.
type StatusRequest uint8

const (
	StatusRequestOn   StatusRequest = 1
	StatusRequestOff  StatusRequest = 2
	StatusRequestOnce StatusRequest = 3
)

// RecordingSequence is the repeat-recording weekday bitmask carried in
// timer blocks. Zero means no repeat.
type RecordingSequence uint8

const (
	RecordSunday    RecordingSequence = 0x01
	RecordMonday    RecordingSequence = 0x02
	RecordTuesday   RecordingSequence = 0x04
	RecordWednesday RecordingSequence = 0x08
	RecordThursday  RecordingSequence = 0x10
	RecordFriday    RecordingSequence = 0x20
	RecordSaturday  RecordingSequence = 0x40
)

// TimerBlock is the common leading payload of OpSetAnalogueTimer,
// OpSetDigitalTimer and OpSetExtTimer.
type TimerBlock struct {
	Day         uint8 // day of month, 1-31
	Month       uint8 // month of year, 1-12
	StartHour   uint8 // 0-23
	StartMinute uint8 // 0-59
	DurationH   uint8 // 1-99
	DurationMin uint8 // 0-59
}

// Bytes returns the 6-byte wire form of the timer block followed by the
// recording sequence operand.
func (t TimerBlock) Bytes(seq RecordingSequence) []byte {
	return []byte{t.Day, t.Month, t.StartHour, t.StartMinute, t.DurationH, t.DurationMin, byte(seq)}
}

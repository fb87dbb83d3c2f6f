package cec

import "fmt"

// Opcode is the one-byte command identifier of a CEC message.
//
// The registry below covers the opcodes defined by the CEC specification.
// The type itself is open: a byte outside the registry is still a valid
// Opcode whose Known method reports false, so forward compatibility with
// newer protocol revisions and vendor extensions is preserved. Receivers
// can log, forward or feature-abort such messages without ever failing
// decode.
type Opcode uint8

// Protocol-defined opcodes, grouped by feature.
const (
	// One Touch Play

	// OpActiveSource is broadcast by a new source when it starts to
	// transmit a stream, or in response to OpRequestActiveSource.
	// Parameters: 2-byte physical address of the active source.
	OpActiveSource Opcode = 0x82
	// OpImageViewOn is sent by a source to the TV when it enters the
	// active state. The TV should turn on if it is not on.
	OpImageViewOn Opcode = 0x04
	// OpTextViewOn acts as OpImageViewOn but also removes text, menus
	// and PIP windows from the TV's display.
	OpTextViewOn Opcode = 0x0d

	// Routing Control

	// OpInactiveSource is sent by the active source when it has no video
	// to present or is going into standby.
	// Parameters: 2-byte physical address.
	OpInactiveSource Opcode = 0x9d
	// OpRequestActiveSource is broadcast by a new device to discover the
	// status of the system.
	OpRequestActiveSource Opcode = 0x85
	// OpRoutingChange is broadcast by a CEC switch when it is manually
	// switched. Parameters: 2-byte old + 2-byte new physical address.
	OpRoutingChange Opcode = 0x80
	// OpRoutingInformation is broadcast by a CEC switch to indicate the
	// active route below it. Parameters: 2-byte physical address.
	OpRoutingInformation Opcode = 0x81
	// OpSetStreamPath is used by the TV to request a streaming path from
	// the given physical address. Parameters: 2-byte physical address.
	OpSetStreamPath Opcode = 0x86

	// Standby

	// OpStandby switches the destination (or, broadcast, every device)
	// to standby. No parameters.
	OpStandby Opcode = 0x36

	// System Information

	// OpCecVersion reports the supported CEC version in response to
	// OpGetCecVersion. Parameters: 1-byte Version.
	OpCecVersion Opcode = 0x9e
	// OpGetCecVersion requests an OpCecVersion reply. Handled by the
	// kernel framework unless the follower is in passthrough mode.
	OpGetCecVersion Opcode = 0x9f
	// OpGivePhysicalAddr requests an OpReportPhysicalAddr reply.
	OpGivePhysicalAddr Opcode = 0x83
	// OpGetMenuLanguage requests an OpSetMenuLanguage reply.
	OpGetMenuLanguage Opcode = 0x91
	// OpReportPhysicalAddr informs all devices of the mapping between
	// the initiator's physical and logical address.
	// Parameters: 2-byte physical address, 1-byte primary device type.
	OpReportPhysicalAddr Opcode = 0x84
	// OpSetMenuLanguage is used by the TV to indicate the menu language.
	// Parameters: 3-byte ISO 639-2 language code.
	OpSetMenuLanguage Opcode = 0x32
	// OpReportFeatures reports CEC 2.0 device features.
	OpReportFeatures Opcode = 0xa6
	// OpGiveFeatures requests an OpReportFeatures reply (CEC 2.0).
	OpGiveFeatures Opcode = 0xa5

	// Deck Control

	// OpDeckControl controls a deck's media functions.
	// Parameters: 1-byte DeckControlMode.
	OpDeckControl Opcode = 0x42
	// OpDeckStatus reports a deck's status to the initiator of
	// OpGiveDeckStatus. Parameters: 1-byte DeckInfo.
	OpDeckStatus Opcode = 0x1b
	// OpGiveDeckStatus requests the status of a deck.
	// Parameters: 1-byte StatusRequest.
	OpGiveDeckStatus Opcode = 0x1a
	// OpPlay controls the playback behaviour of a source.
	// Parameters: 1-byte PlayMode.
	OpPlay Opcode = 0x41

	// Vendor Specific Commands

	// OpDeviceVendorId reports the vendor ID of the initiator.
	// Parameters: 3-byte vendor ID.
	OpDeviceVendorId Opcode = 0x87
	// OpGiveDeviceVendorId requests an OpDeviceVendorId reply.
	OpGiveDeviceVendorId Opcode = 0x8c
	// OpVendorCommand carries a vendor-specific payload.
	OpVendorCommand Opcode = 0x89
	// OpVendorCommandWithId carries a vendor-specific payload prefixed
	// by a 3-byte vendor ID.
	OpVendorCommandWithId Opcode = 0xa0
	// OpVendorRemoteButtonDown indicates a vendor-specific remote
	// control button press.
	OpVendorRemoteButtonDown Opcode = 0x8a
	// OpVendorRemoteButtonUp releases the button indicated by
	// OpVendorRemoteButtonDown.
	OpVendorRemoteButtonUp Opcode = 0x8b

	// OSD Display

	// OpSetOsdString sends a text string to display on the TV.
	// Parameters: 1-byte DisplayControl followed by up to 13 ASCII bytes.
	OpSetOsdString Opcode = 0x64
	// OpGiveOsdName requests an OpSetOsdName reply. No parameters.
	OpGiveOsdName Opcode = 0x46
	// OpSetOsdName reports the device's OSD name.
	// Parameters: up to 14 ASCII bytes, no terminator.
	OpSetOsdName Opcode = 0x47

	// Device Menu Control

	// OpMenuRequest asks a device to show/remove a menu or to report
	// whether one is shown. Parameters: 1-byte MenuRequestType.
	OpMenuRequest Opcode = 0x8d
	// OpMenuStatus indicates whether the device is showing a menu.
	// Parameters: 1 byte, Activated(0)/Deactivated(1).
	OpMenuStatus Opcode = 0x8e
	// OpUserControlPressed indicates a remote control button press.
	// Parameters: 1-byte UserControlCode.
	OpUserControlPressed Opcode = 0x44
	// OpUserControlReleased releases the button indicated by the last
	// OpUserControlPressed.
	OpUserControlReleased Opcode = 0x45

	// Power Status

	// OpGiveDevicePowerStatus requests an OpReportPowerStatus reply.
	OpGiveDevicePowerStatus Opcode = 0x8f
	// OpReportPowerStatus reports the device's power status.
	// Parameters: 1-byte PowerStatus.
	OpReportPowerStatus Opcode = 0x90

	// General Protocol

	// OpFeatureAbort tells the initiator that the destination does not
	// support the opcode it sent, cannot deal with it at present, or
	// rejected the frame at the protocol layer.
	// Parameters: 1-byte aborted Opcode, 1-byte AbortReason.
	OpFeatureAbort Opcode = 0x00
	// OpAbort is a test message that shall be feature-aborted. Handled
	// by the kernel framework unless in exclusive passthrough mode.
	OpAbort Opcode = 0xff

	// System Audio Control

	// OpGiveAudioStatus requests an OpReportAudioStatus reply.
	OpGiveAudioStatus Opcode = 0x71
	// OpGiveSystemAudioModeStatus requests the system audio mode status.
	OpGiveSystemAudioModeStatus Opcode = 0x7d
	// OpReportAudioStatus reports playback volume as a percentage in the
	// low 7 bits; the high bit indicates mute.
	OpReportAudioStatus Opcode = 0x7a
	// OpReportShortAudioDescriptor reports supported audio descriptors.
	OpReportShortAudioDescriptor Opcode = 0xa3
	// OpRequestShortAudioDescriptor requests audio descriptors.
	OpRequestShortAudioDescriptor Opcode = 0xa4
	// OpSetSystemAudioMode turns system audio mode on or off.
	// Parameters: 1 byte, On(1)/Off(0).
	OpSetSystemAudioMode Opcode = 0x72
	// OpSystemAudioModeRequest asks the amplifier to enter system audio
	// mode for the source at the given physical address; without
	// parameters it requests termination of the feature.
	OpSystemAudioModeRequest Opcode = 0x70
	// OpSystemAudioModeStatus reports the current system audio mode.
	// Parameters: 1 byte, On(1)/Off(0).
	OpSystemAudioModeStatus Opcode = 0x7e

	// Audio Rate Control

	// OpSetAudioRate controls the audio rate of a source device.
	OpSetAudioRate Opcode = 0x9a

	// One Touch Record

	// OpRecordOff requests a device to stop recording.
	OpRecordOff Opcode = 0x0b
	// OpRecordOn attempts to record the specified source.
	OpRecordOn Opcode = 0x09
	// OpRecordStatus reports the recording device status after
	// OpRecordOn.
	OpRecordStatus Opcode = 0x0a
	// OpRecordTvScreen asks the TV to initiate recording of the
	// presently displayed source.
	OpRecordTvScreen Opcode = 0x0f

	// Timer Programming

	// OpClearAnalogueTimer clears an analogue timer block.
	OpClearAnalogueTimer Opcode = 0x33
	// OpClearDigitalTimer clears a digital timer block.
	OpClearDigitalTimer Opcode = 0x99
	// OpClearExtTimer clears an external timer block.
	OpClearExtTimer Opcode = 0xa1
	// OpSetAnalogueTimer sets a timer block on an analogue recorder.
	// Parameters: TimerBlock, RecordingSequence, broadcast info.
	OpSetAnalogueTimer Opcode = 0x34
	// OpSetDigitalTimer sets a timer block on a digital recorder.
	OpSetDigitalTimer Opcode = 0x97
	// OpSetExtTimer sets a timer block for an external source.
	OpSetExtTimer Opcode = 0xa2
	// OpSetTimerProgramTitle associates a program title with the timer
	// block set immediately before.
	OpSetTimerProgramTitle Opcode = 0x67
	// OpTimerClearedStatus reports the outcome of a timer clear request.
	OpTimerClearedStatus Opcode = 0x43
	// OpTimerStatus reports timer status to the initiator of a timer
	// set request.
	OpTimerStatus Opcode = 0x35

	// Tuner Control

	// OpGiveTunerDeviceStatus requests the status of a tuner.
	// Parameters: 1-byte StatusRequest.
	OpGiveTunerDeviceStatus Opcode = 0x08
	// OpSelectAnalogueService selects an analogue broadcast service.
	OpSelectAnalogueService Opcode = 0x92
	// OpSelectDigitalService selects a digital broadcast service.
	OpSelectDigitalService Opcode = 0x93
	// OpTunerDeviceStatus reports the tuner status.
	OpTunerDeviceStatus Opcode = 0x07
	// OpTunerStepDecrement tunes to the previous service.
	OpTunerStepDecrement Opcode = 0x06
	// OpTunerStepIncrement tunes to the next service.
	OpTunerStepIncrement Opcode = 0x05

	// Audio Return Channel

	OpInitiateArc           Opcode = 0xc0
	OpReportArcInitiated    Opcode = 0xc1
	OpReportArcTerminated   Opcode = 0xc2
	OpRequestArcInitiation  Opcode = 0xc3
	OpRequestArcTermination Opcode = 0xc4
	OpTerminateArc          Opcode = 0xc5

	// Dynamic Audio Lipsync (CEC 2.0 and up)

	OpRequestCurrentLatency Opcode = 0xa7
	OpReportCurrentLatency  Opcode = 0xa8

	// Capability Discovery and Control

	OpCdcMessage Opcode = 0xf8
)

var opcodeNames = map[Opcode]string{
	OpActiveSource:                "ActiveSource",
	OpImageViewOn:                 "ImageViewOn",
	OpTextViewOn:                  "TextViewOn",
	OpInactiveSource:              "InactiveSource",
	OpRequestActiveSource:         "RequestActiveSource",
	OpRoutingChange:               "RoutingChange",
	OpRoutingInformation:          "RoutingInformation",
	OpSetStreamPath:               "SetStreamPath",
	OpStandby:                     "Standby",
	OpCecVersion:                  "CecVersion",
	OpGetCecVersion:               "GetCecVersion",
	OpGivePhysicalAddr:            "GivePhysicalAddr",
	OpGetMenuLanguage:             "GetMenuLanguage",
	OpReportPhysicalAddr:          "ReportPhysicalAddr",
	OpSetMenuLanguage:             "SetMenuLanguage",
	OpReportFeatures:              "ReportFeatures",
	OpGiveFeatures:                "GiveFeatures",
	OpDeckControl:                 "DeckControl",
	OpDeckStatus:                  "DeckStatus",
	OpGiveDeckStatus:              "GiveDeckStatus",
	OpPlay:                        "Play",
	OpDeviceVendorId:              "DeviceVendorId",
	OpGiveDeviceVendorId:          "GiveDeviceVendorId",
	OpVendorCommand:               "VendorCommand",
	OpVendorCommandWithId:         "VendorCommandWithId",
	OpVendorRemoteButtonDown:      "VendorRemoteButtonDown",
	OpVendorRemoteButtonUp:        "VendorRemoteButtonUp",
	OpSetOsdString:                "SetOsdString",
	OpGiveOsdName:                 "GiveOsdName",
	OpSetOsdName:                  "SetOsdName",
	OpMenuRequest:                 "MenuRequest",
	OpMenuStatus:                  "MenuStatus",
	OpUserControlPressed:          "UserControlPressed",
	OpUserControlReleased:         "UserControlReleased",
	OpGiveDevicePowerStatus:       "GiveDevicePowerStatus",
	OpReportPowerStatus:           "ReportPowerStatus",
	OpFeatureAbort:                "FeatureAbort",
	OpAbort:                       "Abort",
	OpGiveAudioStatus:             "GiveAudioStatus",
	OpGiveSystemAudioModeStatus:   "GiveSystemAudioModeStatus",
	OpReportAudioStatus:           "ReportAudioStatus",
	OpReportShortAudioDescriptor:  "ReportShortAudioDescriptor",
	OpRequestShortAudioDescriptor: "RequestShortAudioDescriptor",
	OpSetSystemAudioMode:          "SetSystemAudioMode",
	OpSystemAudioModeRequest:      "SystemAudioModeRequest",
	OpSystemAudioModeStatus:       "SystemAudioModeStatus",
	OpSetAudioRate:                "SetAudioRate",
	OpRecordOff:                   "RecordOff",
	OpRecordOn:                    "RecordOn",
	OpRecordStatus:                "RecordStatus",
	OpRecordTvScreen:              "RecordTvScreen",
	OpClearAnalogueTimer:          "ClearAnalogueTimer",
	OpClearDigitalTimer:           "ClearDigitalTimer",
	OpClearExtTimer:               "ClearExtTimer",
	OpSetAnalogueTimer:            "SetAnalogueTimer",
	OpSetDigitalTimer:             "SetDigitalTimer",
	OpSetExtTimer:                 "SetExtTimer",
	OpSetTimerProgramTitle:        "SetTimerProgramTitle",
	OpTimerClearedStatus:          "TimerClearedStatus",
	OpTimerStatus:                 "TimerStatus",
	OpGiveTunerDeviceStatus:       "GiveTunerDeviceStatus",
	OpSelectAnalogueService:       "SelectAnalogueService",
	OpSelectDigitalService:        "SelectDigitalService",
	OpTunerDeviceStatus:           "TunerDeviceStatus",
	OpTunerStepDecrement:          "TunerStepDecrement",
	OpTunerStepIncrement:          "TunerStepIncrement",
	OpInitiateArc:                 "InitiateArc",
	OpReportArcInitiated:          "ReportArcInitiated",
	OpReportArcTerminated:         "ReportArcTerminated",
	OpRequestArcInitiation:        "RequestArcInitiation",
	OpRequestArcTermination:       "RequestArcTermination",
	OpTerminateArc:                "TerminateArc",
	OpRequestCurrentLatency:       "RequestCurrentLatency",
	OpReportCurrentLatency:        "ReportCurrentLatency",
	OpCdcMessage:                  "CdcMessage",
}

// Known reports whether the opcode is in the protocol-defined registry.
func (op Opcode) Known() bool {
	_, ok := opcodeNames[op]
	return ok
}

// String returns the registry name of the opcode, or
// "unrecognized(0xNN)" for bytes outside the registry.
func (op Opcode) String() string {
	if name, ok := opcodeNames[op]; ok {
		return name
	}
	return fmt.Sprintf("unrecognized(0x%02x)", uint8(op))
}

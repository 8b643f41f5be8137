package hciradio

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/unix"
)

// Device enumeration talks to the kernel's Bluetooth HCI socket layer
// directly, the same ioctls the reference reaches via BlueZ's
// hci_for_each_dev/hci_devid/hci_devba. golang.org/x/sys/unix has no
// typed wrapper for these HCI-specific ioctls, so the request structs
// and codes are declared here the way a raw HCI socket client must.
const (
	hciGetDeviceListCode = 0x800448d2 // HCIGETDEVLIST, _IOR('H', 210, int)
	hciGetDeviceInfoCode = 0x800448d3 // HCIGETDEVINFO, _IOR('H', 211, int)
	hciMaxDevices        = 16

	afBluetooth = 31
	btProtoHCI  = 1
)

type hciDevReq struct {
	devID  uint16
	devOpt uint32
}

type hciDevListReq struct {
	devNum uint16
	devReq [hciMaxDevices]hciDevReq
}

type hciDevStats struct {
	errRx, errTx               uint32
	cmdTx, evtRx               uint32
	aclTx, aclRx               uint32
	scoTx, scoRx               uint32
	byteRx, byteTx             uint32
}

type hciDevInfo struct {
	devID uint16
	name  [8]byte

	bdaddr [6]byte

	flags   uint32
	devType uint8

	features [8]uint8

	pktType    uint32
	linkPolicy uint32
	linkMode   uint32

	aclMtu, aclPkts uint16
	scoMtu, scoPkts uint16

	stats hciDevStats
}

// DeviceInfo describes one local HCI controller.
type DeviceInfo struct {
	Name string
	BDA  [6]byte
	Up   bool
}

func (d DeviceInfo) String() string {
	return fmt.Sprintf("%s\t%02X:%02X:%02X:%02X:%02X:%02X",
		d.Name, d.BDA[5], d.BDA[4], d.BDA[3], d.BDA[2], d.BDA[1], d.BDA[0])
}

const hciUp = 1 // HCI_UP device flag bit

// ListDevices enumerates the local HCI controllers the kernel currently
// knows about, mirroring hci_for_each_dev(HCI_UP, xhci_dev_info, 0).
func ListDevices() ([]DeviceInfo, error) {
	fd, err := unix.Socket(afBluetooth, unix.SOCK_RAW, btProtoHCI)
	if err != nil {
		return nil, fmt.Errorf("open HCI socket: %w", err)
	}
	defer unix.Close(fd)

	req := hciDevListReq{devNum: hciMaxDevices}
	if err := ioctl(fd, hciGetDeviceListCode, unsafe.Pointer(&req)); err != nil {
		return nil, fmt.Errorf("HCIGETDEVLIST: %w", err)
	}

	devices := make([]DeviceInfo, 0, req.devNum)
	for i := 0; i < int(req.devNum); i++ {
		info := hciDevInfo{devID: req.devReq[i].devID}
		if err := ioctl(fd, hciGetDeviceInfoCode, unsafe.Pointer(&info)); err != nil {
			continue
		}
		devices = append(devices, DeviceInfo{
			Name: trimNulls(info.name[:]),
			BDA:  info.bdaddr,
			Up:   info.flags&hciUp != 0,
		})
	}
	return devices, nil
}

// DeviceExists reports whether name (e.g. "hci0") is a known local
// controller, mirroring hci_devid's lookup-by-name behaviour.
func DeviceExists(name string) (bool, error) {
	devices, err := ListDevices()
	if err != nil {
		return false, err
	}
	for _, d := range devices {
		if d.Name == name {
			return true, nil
		}
	}
	return false, nil
}

func ioctl(fd int, req uintptr, arg unsafe.Pointer) error {
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(fd), req, uintptr(arg))
	if errno != 0 {
		return errno
	}
	return nil
}

func trimNulls(b []byte) string {
	for i, c := range b {
		if c == 0 {
			return string(b[:i])
		}
	}
	return string(b)
}

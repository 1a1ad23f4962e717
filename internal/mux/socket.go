//go:build unix

package mux

import (
	"fmt"
	"io"
	"net"

	"golang.org/x/sys/unix"
)

// dialNonBlocking opens a non-blocking TCP socket and begins connecting
// to addr without blocking the calling goroutine (spec §4.F: "opens
// non-blocking sockets ... never blocks more than the initiation cost").
// It returns the raw file descriptor and whether the connect is still in
// progress (false means it completed synchronously).
func dialNonBlocking(addr net.Addr) (fd int, pending bool, err error) {
	tcpAddr, ok := addr.(*net.TCPAddr)
	if !ok {
		return -1, false, fmt.Errorf("mux: address %v is not a resolved TCP address", addr)
	}

	domain := unix.AF_INET
	if tcpAddr.IP.To4() == nil {
		domain = unix.AF_INET6
	}

	fd, err = unix.Socket(domain, unix.SOCK_STREAM, unix.IPPROTO_TCP)
	if err != nil {
		return -1, false, fmt.Errorf("socket: %w", err)
	}
	if err := unix.SetNonblock(fd, true); err != nil {
		unix.Close(fd)
		return -1, false, fmt.Errorf("set nonblock: %w", err)
	}
	_ = unix.SetsockoptInt(fd, unix.IPPROTO_TCP, unix.TCP_NODELAY, 1)

	sa := toSockaddr(tcpAddr)
	err = unix.Connect(fd, sa)
	if err == nil {
		return fd, false, nil
	}
	if err == unix.EINPROGRESS {
		return fd, true, nil
	}
	unix.Close(fd)
	return -1, false, fmt.Errorf("connect: %w", err)
}

func toSockaddr(addr *net.TCPAddr) unix.Sockaddr {
	if ip4 := addr.IP.To4(); ip4 != nil {
		sa := &unix.SockaddrInet4{Port: addr.Port}
		copy(sa.Addr[:], ip4)
		return sa
	}
	sa := &unix.SockaddrInet6{Port: addr.Port}
	copy(sa.Addr[:], addr.IP.To16())
	return sa
}

// finishConnect checks whether a connect initiated by dialNonBlocking has
// completed successfully, via SO_ERROR (spec §4.E.i finishConnect).
func finishConnect(fd int) (connected bool, err error) {
	errno, sockErr := unix.GetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_ERROR)
	if sockErr != nil {
		return false, fmt.Errorf("getsockopt SO_ERROR: %w", sockErr)
	}
	if errno != 0 {
		return false, fmt.Errorf("connect failed: %s", unix.Errno(errno).Error())
	}
	return true, nil
}

func closeFD(fd int) {
	if fd >= 0 {
		_ = unix.Close(fd)
	}
}

// rawRead/rawWrite perform a single non-blocking syscall read/write on
// fd. EAGAIN/EWOULDBLOCK is reported as (0, nil) — no data available,
// not an error, matching the non-blocking channel semantics spec.md
// assumes throughout §4.E. A read that returns 0 bytes with no errno is
// the peer closing its end, reported here as io.EOF so callers can tell
// it apart from "nothing ready yet".
func rawRead(fd int, p []byte) (int, error) {
	n, err := unix.Read(fd, p)
	if err == unix.EAGAIN || err == unix.EWOULDBLOCK {
		return 0, nil
	}
	if err == nil && n == 0 {
		return 0, io.EOF
	}
	return n, err
}

func rawWrite(fd int, p []byte) (int, error) {
	n, err := unix.Write(fd, p)
	if err == unix.EAGAIN || err == unix.EWOULDBLOCK {
		return 0, nil
	}
	return n, err
}

package family

import "github.com/arloliu/go-hveprom/line"

// 1702A shield control lines.
const (
	Line1702AReadPower line.ID = iota
	Line1702AProgPower
	Line1702AREN
	Line1702APGMVDD
	Line1702APEN
	Line1702ACS
	Line1702APGM
	Line1702AIMAX
)

var lines1702A = []line.Desc{
	{ID: Line1702AReadPower, Name: "READPWREN"},
	{ID: Line1702AProgPower, Name: "PGMPWREN"},
	{ID: Line1702AREN, Name: "REN"},
	{ID: Line1702APGMVDD, Name: "PGMVDD"},
	{ID: Line1702APEN, Name: "PEN"},
	{ID: Line1702ACS, Name: "CSEN"},
	{ID: Line1702APGM, Name: "PGMEN"},
	{ID: Line1702AIMAX, Name: "IMAX", Input: true},
}

// 2704/2708/TMS2716/MCM6876x shield control lines.
const (
	Line270xPON line.ID = iota
	Line270xPE
	Line270xWR
	Line270xRD
	Line270xDEVSEL
)

var lines270x = []line.Desc{
	{ID: Line270xPON, Name: "PON"},
	{ID: Line270xPE, Name: "PE"},
	{ID: Line270xWR, Name: "WR"},
	{ID: Line270xRD, Name: "RD"},
	{ID: Line270xDEVSEL, Name: "DEVSEL", Input: true},
}

// MCS-48 shield control lines.
const (
	LineMCS48PON line.ID = iota
	LineMCS48CS
	LineMCS48A0
	LineMCS48EA
	LineMCS48VDD
	LineMCS48TEST0
	LineMCS48PROG
	LineMCS48RESET
	LineMCS48ALE
)

var linesMCS48 = []line.Desc{
	{ID: LineMCS48PON, Name: "PON"},
	{ID: LineMCS48CS, Name: "CS", ActiveLow: true},
	{ID: LineMCS48A0, Name: "A0"},
	{ID: LineMCS48EA, Name: "EA"},
	{ID: LineMCS48VDD, Name: "VDDEN"},
	{ID: LineMCS48TEST0, Name: "TEST0"},
	{ID: LineMCS48PROG, Name: "PROGEN"},
	{ID: LineMCS48RESET, Name: "RESET", ActiveLow: true},
	{ID: LineMCS48ALE, Name: "ALE", Input: true},
}

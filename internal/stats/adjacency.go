package stats

// prefectureAdjacency maps JIS X 0401 prefecture codes to their land
// neighbors. 01 (Hokkaido) and 47 (Okinawa) have no land border; the
// Seikan and Kanmon links count as adjacency for commuting purposes.
var prefectureAdjacency = map[string][]string{
	"01": {"02"},
	"02": {"01", "03", "05"},
	"03": {"02", "04", "05"},
	"04": {"03", "05", "06", "07"},
	"05": {"02", "03", "04", "06"},
	"06": {"04", "05", "07", "15"},
	"07": {"04", "06", "08", "09", "10", "15"},
	"08": {"07", "09", "11", "12"},
	"09": {"07", "08", "10", "11"},
	"10": {"07", "09", "11", "15", "20"},
	"11": {"08", "09", "10", "12", "13", "19", "20"},
	"12": {"08", "11", "13"},
	"13": {"11", "12", "14", "19"},
	"14": {"13", "19", "22"},
	"15": {"06", "07", "10", "16", "20"},
	"16": {"15", "17", "20", "21"},
	"17": {"16", "18", "21"},
	"18": {"17", "21", "25", "26"},
	"19": {"11", "13", "14", "20", "22"},
	"20": {"10", "11", "15", "16", "19", "21", "22", "23"},
	"21": {"16", "17", "18", "20", "23", "24", "25"},
	"22": {"14", "19", "20", "23"},
	"23": {"20", "21", "22", "24"},
	"24": {"21", "23", "25", "26", "29", "30"},
	"25": {"18", "21", "24", "26"},
	"26": {"18", "25", "24", "27", "28", "29"},
	"27": {"26", "28", "29", "30"},
	"28": {"26", "27", "31", "33", "36"},
	"29": {"24", "26", "27", "30"},
	"30": {"24", "27", "29"},
	"31": {"28", "32", "33", "34"},
	"32": {"31", "34", "35"},
	"33": {"28", "31", "34", "37"},
	"34": {"31", "32", "33", "35", "38"},
	"35": {"32", "34", "40", "44"},
	"36": {"28", "37", "38", "39"},
	"37": {"33", "36", "38"},
	"38": {"34", "36", "37", "39", "44"},
	"39": {"36", "38"},
	"40": {"35", "41", "43", "44"},
	"41": {"40", "42"},
	"42": {"41"},
	"43": {"40", "44", "45", "46"},
	"44": {"35", "38", "40", "43", "45"},
	"45": {"43", "44", "46"},
	"46": {"43", "45"},
	"47": {},
}

package universe

// staticListings is the last-resort universe: liquid IDX large caps.
var staticListings = []Listing{
	{"AALI.JK", "Astra Agro Lestari Tbk"},
	{"ACES.JK", "Aspirasi Hidup Indonesia Tbk"},
	{"ADRO.JK", "Alamtri Resources Indonesia Tbk"},
	{"AKRA.JK", "AKR Corporindo Tbk"},
	{"AMRT.JK", "Sumber Alfaria Trijaya Tbk"},
	{"ANTM.JK", "Aneka Tambang Tbk"},
	{"ARTO.JK", "Bank Jago Tbk"},
	{"ASII.JK", "Astra International Tbk"},
	{"BBCA.JK", "Bank Central Asia Tbk"},
	{"BBNI.JK", "Bank Negara Indonesia (Persero) Tbk"},
	{"BBRI.JK", "Bank Rakyat Indonesia (Persero) Tbk"},
	{"BBTN.JK", "Bank Tabungan Negara (Persero) Tbk"},
	{"BMRI.JK", "Bank Mandiri (Persero) Tbk"},
	{"BRIS.JK", "Bank Syariah Indonesia Tbk"},
	{"BRPT.JK", "Barito Pacific Tbk"},
	{"BSDE.JK", "Bumi Serpong Damai Tbk"},
	{"BUKA.JK", "Bukalapak.com Tbk"},
	{"CPIN.JK", "Charoen Pokphand Indonesia Tbk"},
	{"CTRA.JK", "Ciputra Development Tbk"},
	{"ESSA.JK", "ESSA Industries Indonesia Tbk"},
	{"EXCL.JK", "XL Axiata Tbk"},
	{"GGRM.JK", "Gudang Garam Tbk"},
	{"GOTO.JK", "GoTo Gojek Tokopedia Tbk"},
	{"HMSP.JK", "H.M. Sampoerna Tbk"},
	{"HRUM.JK", "Harum Energy Tbk"},
	{"ICBP.JK", "Indofood CBP Sukses Makmur Tbk"},
	{"INCO.JK", "Vale Indonesia Tbk"},
	{"INDF.JK", "Indofood Sukses Makmur Tbk"},
	{"INKP.JK", "Indah Kiat Pulp & Paper Tbk"},
	{"INTP.JK", "Indocement Tunggal Prakarsa Tbk"},
	{"ISAT.JK", "Indosat Tbk"},
	{"ITMG.JK", "Indo Tambangraya Megah Tbk"},
	{"JPFA.JK", "Japfa Comfeed Indonesia Tbk"},
	{"JSMR.JK", "Jasa Marga (Persero) Tbk"},
	{"KLBF.JK", "Kalbe Farma Tbk"},
	{"MAPI.JK", "Mitra Adiperkasa Tbk"},
	{"MDKA.JK", "Merdeka Copper Gold Tbk"},
	{"MEDC.JK", "Medco Energi Internasional Tbk"},
	{"MYOR.JK", "Mayora Indah Tbk"},
	{"PGAS.JK", "Perusahaan Gas Negara Tbk"},
	{"PTBA.JK", "Bukit Asam Tbk"},
	{"PWON.JK", "Pakuwon Jati Tbk"},
	{"SIDO.JK", "Industri Jamu dan Farmasi Sido Muncul Tbk"},
	{"SMGR.JK", "Semen Indonesia (Persero) Tbk"},
	{"TBIG.JK", "Tower Bersama Infrastructure Tbk"},
	{"TLKM.JK", "Telkom Indonesia (Persero) Tbk"},
	{"TOWR.JK", "Sarana Menara Nusantara Tbk"},
	{"TPIA.JK", "Chandra Asri Pacific Tbk"},
	{"UNTR.JK", "United Tractors Tbk"},
	{"UNVR.JK", "Unilever Indonesia Tbk"},
}

// StaticListings returns a copy of the built-in universe.
func StaticListings() []Listing {
	return append([]Listing(nil), staticListings...)
}

package games

// Record is one cartridge's metadata row. Keys are CSV column names; unknown
// columns round-trip untouched so hand-maintained fields survive every batch
// run.
type Record map[string]string

// Field names for the columns this program reads or writes. The CSV may carry
// more; those are preserved as-is.
const (
	FieldNameOriginal     = "name_original_reference"
	FieldItchTitle        = "itch_titlename"
	FieldNameOverwrite    = "name_overwrite"
	FieldSortName         = "sortname"
	FieldID               = "id"
	FieldTicID            = "tic_id"
	FieldItchID           = "itch_id"
	FieldSource           = "source_with_bestversion"
	FieldNotes            = "notes"
	FieldSscrpID          = "sscrp_id"
	FieldNotGame          = "NOT_GAME"
	FieldInclude          = "include_in_collection"
	FieldIncludeCurated   = "include_in_curated_collection"
	FieldDistribution     = "distribution_license"
	FieldRomCategory      = "rom_category"
	FieldTicCategory      = "tic_category"
	FieldOverwriteAuthor  = "overwrite_author"
	FieldTicAuthor        = "tic_author_name"
	FieldTicUploader      = "tic_uploader_name"
	FieldItchAuthor       = "itch_author_name"
	FieldItchAuthorSlug   = "itch_author_slug"
	FieldItchAuthorID     = "itch_author_id"
	FieldTicUploaderID    = "tic_uploader_id"
	FieldTicPubDate       = "tic_pub_date"
	FieldTicUpdDate       = "tic_upd_date"
	FieldItchPubDate      = "itch_pub_date"
	FieldItchUpdDate      = "itch_upd_date"
	FieldItchLastmodDate  = "itch_lastmodified_date"
	FieldOverwritePubTS   = "overwrite_pub_timestamp"
	FieldOverwriteUpdTS   = "overwrite_upd_timestamp"
	FieldTicPubTS         = "tic_pub_timestamp"
	FieldTicUpdTS         = "tic_upd_timestamp"
	FieldItchPubTS        = "itch_pub_timestamp"
	FieldItchUpdTS        = "itch_upd_timestamp"
	FieldItchLastmodTS    = "itch_lastmodified_timestamp"
	FieldDownloadURL      = "download_url"
	FieldItchPage         = "itch_page"
	FieldOverwriteGenre   = "overwrite_genre"
	FieldSccrpGenre       = "sccrp_genre"
	FieldItchGenre        = "itch_genre"
	FieldNumPlayers       = "num_players"
	FieldMatchType        = "match_type"
	FieldTicMD5           = "tic_md5"
	FieldFileMD5          = "file_md5"
	FieldFileSHA1         = "file_sha1"
	FieldFileCRC          = "file_CRC"
	FieldIPFSCID          = "ipfs_cid"
	FieldOverwriteDesc    = "overwrite_description"
	FieldSscrpDesc        = "sscrp_description"
	FieldTicDesc          = "tic_description"
	FieldTicDescExtra     = "tic_description_extra"
	FieldItchDesc         = "itch_description"
	FieldItchDescExtra    = "itch_description_extra"
)

// DefaultFields is the column order for a freshly created database file.
func DefaultFields() []string {
	return []string{
		FieldNameOriginal, FieldItchTitle, FieldNameOverwrite, FieldSortName,
		"lang", "region", FieldID, FieldTicID,
		FieldItchID, FieldSource, FieldNotes, FieldSscrpID, "sscrp_id2",
		"sscrp_note1", "sscrp_note2", FieldNotGame,
		FieldInclude, FieldIncludeCurated, FieldDistribution,
		FieldRomCategory, FieldTicCategory,
		FieldOverwriteAuthor, FieldTicAuthor, FieldTicUploader, FieldItchAuthor,
		FieldItchAuthorSlug, FieldItchAuthorID, FieldTicUploaderID,
		FieldTicPubDate, FieldTicUpdDate, FieldItchPubDate,
		FieldItchUpdDate, FieldItchLastmodDate,
		FieldOverwritePubTS, FieldOverwriteUpdTS,
		FieldTicPubTS, FieldTicUpdTS, FieldItchPubTS,
		FieldItchUpdTS, FieldItchLastmodTS,
		FieldDownloadURL, FieldItchPage,
		FieldOverwriteGenre, FieldSccrpGenre, FieldItchGenre, FieldNumPlayers,
		"esde_controller", FieldMatchType,
		FieldTicMD5, FieldFileMD5, FieldFileSHA1, FieldFileCRC, FieldIPFSCID,
		FieldOverwriteDesc, FieldSscrpDesc, FieldTicDesc,
		FieldTicDescExtra, FieldItchDesc, FieldItchDescExtra,
	}
}

// Clone returns an independent copy of the record.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

package constant

// AsciiArtLogo is the application's banner shown in the root help.
const AsciiArtLogo = `
         _               _
  ___ _ _ ___ __| |_ _ ___ _ __
 / -_) || / -_) _` + "`" + ` | '_/ _ \ '_ \
 \___|\_, \___\__,_|_| \___/ .__/
      |__/                 |_|`

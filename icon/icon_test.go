package icon

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/snapkit-cli/snapkit/key"
	"github.com/spf13/viper"
)

func TestGet(t *testing.T) {
	Convey("Given the registered icons", t, func() {
		Convey("Each renders for every variant", func() {
			for _, variant := range AvailableVariants() {
				viper.Set(key.IconsVariant, variant)
				for i := range icons {
					So(Get(i), ShouldNotBeEmpty)
				}
			}
		})

		Convey("An unknown variant renders nothing", func() {
			viper.Set(key.IconsVariant, "")
			So(Get(Success), ShouldBeEmpty)
		})
	})
}
